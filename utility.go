package mclog

import (
	"bytes"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"unicode"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "mclog: ") {
		format = "mclog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%w; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// goroutineID returns the id of the calling goroutine, parsed from the
// "goroutine N [" header of its stack. Returns 0 if the header is malformed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// callerInfo reports file base name, short function name and line of the
// frame skip levels above its caller.
func callerInfo(skip int) (file, function string, line int) {
	pc, path, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", "", 0
	}
	file = filepath.Base(path)
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = shortFuncName(fn.Name())
	}
	return file, function, line
}

// shortFuncName strips the package path and collapses closure suffixes,
// "pkg.(*T).Method.func1" becomes "Method".
func shortFuncName(full string) string {
	name := filepath.Base(full)
	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i > 0; i-- {
		last := parts[i]
		closure := isDigits(last) || (strings.HasPrefix(last, "func") && isDigits(last[4:]))
		if !closure {
			return strings.Trim(last, "()*")
		}
	}
	return strings.Trim(parts[len(parts)-1], "()*")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
