package mclog

import (
	"sync"
	"sync/atomic"
)

// filterState is an immutable snapshot of the active filter.
type filterState struct {
	mask        Category
	threshold   Severity
	initialized bool
}

// Before initialization every check passes so startup messages are queued
// rather than lost.
func (s *filterState) isLoggable(mask Category, level Severity) bool {
	if s == nil || !s.initialized {
		return true
	}
	return s.mask&mask == mask && level <= s.threshold
}

func (s *filterState) isPossiblyLoggable(mask Category, level Severity) bool {
	if s == nil || !s.initialized {
		return true
	}
	return (s.mask&mask != 0 || mask == CategoryNone) && level <= s.threshold
}

// filter holds the current snapshot. Readers never lock; writers serialize on
// mu and publish a new snapshot.
type filter struct {
	mu    sync.Mutex
	state atomic.Pointer[filterState]
}

func (f *filter) load() *filterState {
	return f.state.Load()
}

func (f *filter) current() filterState {
	if s := f.state.Load(); s != nil {
		return *s
	}
	return filterState{}
}

func (f *filter) init(mask Category, threshold Severity) {
	f.mu.Lock()
	f.state.Store(&filterState{mask: mask, threshold: threshold, initialized: true})
	f.mu.Unlock()
}

func (f *filter) setThreshold(level Severity) Severity {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.current()
	prev := next.threshold
	next.threshold = level
	f.state.Store(&next)
	return prev
}

func (f *filter) setMask(mask Category) Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.current()
	prev := next.mask
	next.mask = mask
	f.state.Store(&next)
	return prev
}

// IsLoggable reports whether a record with the given category mask and
// severity passes the active filter: every bit of mask must be enabled and
// level must be at least as severe as the threshold. Always true before
// Initialize.
func (l *Logger) IsLoggable(mask Category, level Severity) bool {
	return l.filter.load().isLoggable(mask, level)
}

// IsPossiblyLoggable is the relaxed check: any bit of mask being enabled is
// enough. It is never false when IsLoggable is true, so call sites can use it
// to skip building messages that cannot be logged.
func (l *Logger) IsPossiblyLoggable(mask Category, level Severity) bool {
	return l.filter.load().isPossiblyLoggable(mask, level)
}

// SetSeverityThreshold replaces the threshold and returns the previous one.
func (l *Logger) SetSeverityThreshold(level Severity) Severity {
	return l.filter.setThreshold(level)
}

// SetCategoryMask replaces the category mask and returns the previous one.
func (l *Logger) SetCategoryMask(mask Category) Category {
	return l.filter.setMask(mask)
}

// SeverityThreshold returns the active threshold.
func (l *Logger) SeverityThreshold() Severity {
	return l.filter.current().threshold
}

// CategoryMask returns the active category mask.
func (l *Logger) CategoryMask() Category {
	return l.filter.current().mask
}
