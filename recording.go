package mclog

import "sync"

// RecordingSink keeps every record it receives. It is meant for tests and for
// callers that want to inspect recent output.
type RecordingSink struct {
	mu        sync.Mutex
	logs      []*Record
	prints    []*Record
	flushes   int
	rotations int
	closed    bool
}

// NewRecordingSink creates an empty recording sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (s *RecordingSink) HandleLog(r *Record) {
	s.mu.Lock()
	s.logs = append(s.logs, r)
	s.mu.Unlock()
}

func (s *RecordingSink) HandlePrint(r *Record) {
	s.mu.Lock()
	s.prints = append(s.prints, r)
	s.mu.Unlock()
}

func (s *RecordingSink) RotateLogs() {
	s.mu.Lock()
	s.rotations++
	s.mu.Unlock()
}

func (s *RecordingSink) Flush() {
	s.mu.Lock()
	s.flushes++
	s.mu.Unlock()
}

func (s *RecordingSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Logs returns a copy of the received log records in dispatch order.
func (s *RecordingSink) Logs() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Record, len(s.logs))
	copy(out, s.logs)
	return out
}

// Prints returns a copy of the received print records in dispatch order.
func (s *RecordingSink) Prints() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Record, len(s.prints))
	copy(out, s.prints)
	return out
}

func (s *RecordingSink) FlushCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

func (s *RecordingSink) RotationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotations
}

func (s *RecordingSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Reset drops everything recorded so far.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	s.logs, s.prints = nil, nil
	s.flushes, s.rotations = 0, 0
	s.mu.Unlock()
}
