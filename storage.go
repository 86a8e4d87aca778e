package mclog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// logFile is a buffered append-only handle shared by the file sinks.
type logFile struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// openLogFile opens path for appending, creating it if absent.
func openLogFile(path string) (*logFile, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmtErrorf("failed to create log directory '%s': %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmtErrorf("failed to open/create log file '%s': %w", path, err)
	}
	return &logFile{path: path, file: file, w: bufio.NewWriterSize(file, 32*1024)}, nil
}

func (lf *logFile) write(p []byte) error {
	_, err := lf.w.Write(p)
	return err
}

func (lf *logFile) flush() error {
	return lf.w.Flush()
}

// close flushes, syncs and closes the handle.
func (lf *logFile) close() error {
	err := lf.w.Flush()
	if syncErr := lf.file.Sync(); syncErr != nil {
		err = combineErrors(err, syncErr)
	}
	if closeErr := lf.file.Close(); closeErr != nil {
		err = combineErrors(err, closeErr)
	}
	return err
}

// FileSink appends formatted records to a fixed path. RotateLogs closes and
// reopens the same path, so an external tool can move the file away first.
type FileSink struct {
	path string
	lf   *logFile
	fmt  *Formatter
	diag reporter
}

// NewFileSink opens path in append mode. On failure the sink is returned
// inert and the error is reported.
func NewFileSink(path string, f *Formatter, rep reporter) *FileSink {
	if f == nil {
		f = NewFormatter(nil, false)
	}
	s := &FileSink{path: path, fmt: f, diag: rep}
	lf, err := openLogFile(path)
	if err != nil {
		rep.printf("file sink disabled: %v", err)
		return s
	}
	s.lf = lf
	return s
}

// Path returns the configured file path.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Inert() bool { return s.lf == nil }

func (s *FileSink) HandleLog(r *Record) {
	if s.lf == nil {
		return
	}
	if err := s.lf.write(s.fmt.FormatLine(r)); err != nil {
		s.diag.printf("write to '%s' failed: %v", s.path, err)
	}
}

func (s *FileSink) RotateLogs() {
	if s.lf != nil {
		if err := s.lf.close(); err != nil {
			s.diag.printf("failed to close log file before rotation: %v", err)
		}
		s.lf = nil
	}
	lf, err := openLogFile(s.path)
	if err != nil {
		s.diag.printf("file sink disabled after rotation: %v", err)
		return
	}
	s.lf = lf
}

func (s *FileSink) Flush() {
	if s.lf == nil {
		return
	}
	if err := s.lf.flush(); err != nil {
		s.diag.printf("flush of '%s' failed: %v", s.path, err)
	}
}

func (s *FileSink) Close() error {
	if s.lf == nil {
		return nil
	}
	err := s.lf.close()
	s.lf = nil
	return err
}

// RotatingPathSink writes to "{prefix}.{timestamp}.{pid}.log" and switches to
// a freshly named file on every RotateLogs, leaving earlier files untouched.
type RotatingPathSink struct {
	prefix string
	lf     *logFile
	fmt    *Formatter
	diag   reporter
	clock  func() time.Time
}

// NewRotatingPathSink opens the first file for prefix. On failure the sink is
// returned inert and the error is reported.
func NewRotatingPathSink(prefix string, f *Formatter, rep reporter) *RotatingPathSink {
	if f == nil {
		f = NewFormatter(nil, false)
	}
	s := &RotatingPathSink{prefix: prefix, fmt: f, diag: rep, clock: time.Now}
	s.open()
	return s
}

// Path returns the file currently written, empty when inert.
func (s *RotatingPathSink) Path() string {
	if s.lf == nil {
		return ""
	}
	return s.lf.path
}

func (s *RotatingPathSink) Inert() bool { return s.lf == nil }

// maxRotationSuffix bounds the numeric suffixes tried for one timestamp
const maxRotationSuffix = 1000

// nextPath builds a name unique per rotation and process. A numeric suffix
// is added if the timestamped name already exists.
func (s *RotatingPathSink) nextPath() (string, error) {
	base := fmt.Sprintf("%s.%s.%d", s.prefix, s.clock().UTC().Format(rotationLayout), os.Getpid())
	path := base + ".log"
	for n := 1; n <= maxRotationSuffix; n++ {
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			return path, nil
		}
		if err != nil {
			return "", fmtErrorf("failed to check log file '%s': %w", path, err)
		}
		path = base + "-" + strconv.Itoa(n) + ".log"
	}
	return "", fmtErrorf("no free log file name for '%s' after %d attempts", base, maxRotationSuffix)
}

func (s *RotatingPathSink) open() {
	path, err := s.nextPath()
	if err != nil {
		s.diag.printf("rotating path sink disabled: %v", err)
		return
	}
	lf, err := openLogFile(path)
	if err != nil {
		s.diag.printf("rotating path sink disabled: %v", err)
		return
	}
	s.lf = lf
}

func (s *RotatingPathSink) HandleLog(r *Record) {
	if s.lf == nil {
		return
	}
	if err := s.lf.write(s.fmt.FormatLine(r)); err != nil {
		s.diag.printf("write to '%s' failed: %v", s.lf.path, err)
	}
}

func (s *RotatingPathSink) RotateLogs() {
	if s.lf != nil {
		if err := s.lf.close(); err != nil {
			s.diag.printf("failed to close log file before rotation: %v", err)
		}
		s.lf = nil
	}
	s.open()
}

func (s *RotatingPathSink) Flush() {
	if s.lf == nil {
		return
	}
	if err := s.lf.flush(); err != nil {
		s.diag.printf("flush of '%s' failed: %v", s.lf.path, err)
	}
}

func (s *RotatingPathSink) Close() error {
	if s.lf == nil {
		return nil
	}
	err := s.lf.close()
	s.lf = nil
	return err
}
