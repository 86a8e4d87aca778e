package mclog

import (
	"os"
	"strconv"
	"sync"
)

const unknownThreadName = "Unknown"

// ThreadInfo describes a registered goroutine for display.
type ThreadInfo struct {
	Name      string
	ThreadID  uint64
	ProcessID int
}

type threadEntry struct {
	info     ThreadInfo
	implicit bool
}

// ThreadRegistry maps goroutine ids to display names. Goroutines that log
// without registering get an implicit entry named after their id, up to a
// fixed number of such entries.
type ThreadRegistry struct {
	mu       sync.RWMutex
	entries  map[uint64]*threadEntry
	implicit int
}

// NewThreadRegistry creates an empty registry.
func NewThreadRegistry() *ThreadRegistry {
	return &ThreadRegistry{entries: make(map[uint64]*threadEntry)}
}

// Register names the calling goroutine and returns its previous explicit
// name, or "" if it had none.
func (tr *ThreadRegistry) Register(name string) string {
	return tr.set(goroutineID(), name)
}

// Rename renames the calling goroutine, registering it if absent.
func (tr *ThreadRegistry) Rename(name string) string {
	return tr.set(goroutineID(), name)
}

func (tr *ThreadRegistry) set(id uint64, name string) string {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if e, ok := tr.entries[id]; ok {
		prev := e.info.Name
		if e.implicit {
			prev = ""
			e.implicit = false
			tr.implicit--
		}
		e.info.Name = name
		return prev
	}
	tr.entries[id] = &threadEntry{info: ThreadInfo{Name: name, ThreadID: id, ProcessID: os.Getpid()}}
	return ""
}

// Deregister removes the calling goroutine and returns the name it had.
func (tr *ThreadRegistry) Deregister() string {
	id := goroutineID()

	tr.mu.Lock()
	defer tr.mu.Unlock()

	e, ok := tr.entries[id]
	if !ok {
		return ""
	}
	delete(tr.entries, id)
	if e.implicit {
		tr.implicit--
	}
	return e.info.Name
}

// Lookup returns the entry for a goroutine id, or the "Unknown" default.
func (tr *ThreadRegistry) Lookup(id uint64) ThreadInfo {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	if e, ok := tr.entries[id]; ok {
		return e.info
	}
	return ThreadInfo{Name: unknownThreadName}
}

// Name returns the calling goroutine's registered name, or "".
func (tr *ThreadRegistry) Name() string {
	id := goroutineID()
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	if e, ok := tr.entries[id]; ok && !e.implicit {
		return e.info.Name
	}
	return ""
}

// Len returns the number of entries, implicit ones included.
func (tr *ThreadRegistry) Len() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.entries)
}

// current resolves the calling goroutine, creating an implicit entry on first
// use while under the cap. Past the cap the name is synthesized but not stored.
func (tr *ThreadRegistry) current() ThreadInfo {
	id := goroutineID()

	tr.mu.RLock()
	e, ok := tr.entries[id]
	var info ThreadInfo
	if ok {
		info = e.info
	}
	tr.mu.RUnlock()
	if ok {
		return info
	}

	info = ThreadInfo{Name: implicitThreadName(id), ThreadID: id, ProcessID: os.Getpid()}

	tr.mu.Lock()
	if e, ok := tr.entries[id]; ok {
		info = e.info
	} else if tr.implicit < maxImplicitThreads {
		tr.entries[id] = &threadEntry{info: info, implicit: true}
		tr.implicit++
	}
	tr.mu.Unlock()
	return info
}

func implicitThreadName(id uint64) string {
	return "goroutine-" + strconv.FormatUint(id, 10)
}
