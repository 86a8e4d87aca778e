// Package sanitizer rewrites untrusted message text before it is written to a
// line-oriented log sink, so a message can never forge additional records or
// carry terminal control sequences.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags for rune matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes strconv.IsPrint rejects, tab excepted
	FilterControl                         // unicode.IsControl, tab excepted
	FilterLineBreak                       // '\n', '\r', U+2028, U+2029
	FilterShellSpecial                    // '`', '$', ';', '|', '&', '>', '<', '(', ')', '#'
)

// Transform flags
const (
	TransformStrip     uint64 = 1 << iota // Drop the rune
	TransformHexEncode                    // Replace with "<xx..>" of its UTF-8 bytes
	TransformSpace                        // Replace with a single space
)

// PolicyPreset names a pre-configured rule set.
type PolicyPreset string

const (
	PolicyRaw        PolicyPreset = "raw"         // Passthrough
	PolicyTxt        PolicyPreset = "txt"         // Hex-encode anything non-printable
	PolicySingleLine PolicyPreset = "single_line" // Line breaks become spaces, other controls are hex-encoded
	PolicyShell      PolicyPreset = "shell"       // Strip shell metacharacters
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:        {},
	PolicyTxt:        {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicySingleLine: {{filter: FilterLineBreak, transform: TransformSpace}, {filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyShell:      {{filter: FilterShellSpecial, transform: TransformStrip}},
}

// Sanitizer applies ordered rules to text. The first matching rule wins.
// A configured Sanitizer holds no mutable state and is safe for concurrent use.
type Sanitizer struct {
	rules []rule
}

// New creates a Sanitizer with no rules.
func New() *Sanitizer {
	return &Sanitizer{}
}

// Rule appends a custom rule.
func (s *Sanitizer) Rule(filter, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy appends the rules of a preset. Unknown presets are ignored.
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize returns data with all rules applied. Clean input is returned as is.
func (s *Sanitizer) Sanitize(data string) string {
	if s.clean(data) {
		return data
	}
	return string(s.AppendSanitized(make([]byte, 0, len(data)+16), data))
}

// AppendSanitized appends the sanitized form of data to dst.
func (s *Sanitizer) AppendSanitized(dst []byte, data string) []byte {
	if s.clean(data) {
		return append(dst, data...)
	}
	for _, r := range data {
		if rl, ok := s.match(r); ok {
			dst = applyTransform(dst, r, rl.transform)
			continue
		}
		dst = utf8.AppendRune(dst, r)
	}
	return dst
}

func (s *Sanitizer) clean(data string) bool {
	if len(s.rules) == 0 {
		return true
	}
	for _, r := range data {
		if _, ok := s.match(r); ok {
			return false
		}
	}
	return true
}

func (s *Sanitizer) match(r rune) (rule, bool) {
	for _, rl := range s.rules {
		if matchesFilter(r, rl.filter) {
			return rl, true
		}
	}
	return rule{}, false
}

func matchesFilter(r rune, mask uint64) bool {
	if mask&FilterLineBreak != 0 && (r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029') {
		return true
	}
	if r == '\t' {
		return false
	}
	if mask&FilterNonPrintable != 0 && (r == utf8.RuneError || !strconv.IsPrint(r)) {
		return true
	}
	if mask&FilterControl != 0 && unicode.IsControl(r) {
		return true
	}
	if mask&FilterShellSpecial != 0 {
		switch r {
		case '`', '$', ';', '|', '&', '>', '<', '(', ')', '#':
			return true
		}
	}
	return false
}

func applyTransform(dst []byte, r rune, transform uint64) []byte {
	switch {
	case transform&TransformStrip != 0:
		return dst
	case transform&TransformHexEncode != 0:
		var rb [utf8.UTFMax]byte
		n := utf8.EncodeRune(rb[:], r)
		dst = append(dst, '<')
		dst = hex.AppendEncode(dst, rb[:n])
		return append(dst, '>')
	case transform&TransformSpace != 0:
		return append(dst, ' ')
	default:
		return utf8.AppendRune(dst, r)
	}
}
