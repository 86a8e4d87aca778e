package mclog

import "sync"

// Handle is the interned identity of a source file or function name.
// The zero Handle always resolves to the empty string.
type Handle uint32

// Interner deduplicates repeated strings into small handles. Handles are a
// hash of the content; two different strings with the same hash share the
// first one's handle. This is a known limitation, accepted because the set of
// interned strings is the finite set of call sites in the binary.
type Interner struct {
	mu      sync.RWMutex
	strings map[Handle]string
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{strings: make(map[Handle]string)}
}

// Intern returns the handle of s, storing s on first sight.
func (in *Interner) Intern(s string) Handle {
	if s == "" {
		return 0
	}
	h := hashString(s)

	in.mu.RLock()
	_, ok := in.strings[h]
	in.mu.RUnlock()
	if ok {
		return h
	}

	in.mu.Lock()
	if _, ok := in.strings[h]; !ok {
		in.strings[h] = s
	}
	in.mu.Unlock()
	return h
}

// Resolve returns the string behind h, empty when h is unknown.
func (in *Interner) Resolve(h Handle) string {
	if h == 0 {
		return ""
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.strings[h]
}

// Len returns the number of distinct stored strings.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strings)
}

// hashString is djb2 with xor mixing. Zero is reserved for the empty string.
func hashString(s string) Handle {
	h := uint32(5381)
	for i := 0; i < len(s); i++ {
		h = (h<<5 + h) ^ uint32(s[i])
	}
	if h == 0 {
		h = 1
	}
	return Handle(h)
}
