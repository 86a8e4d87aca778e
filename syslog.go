package mclog

import (
	"strconv"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// Facility is a syslog facility code.
type Facility int

const facilityNone Facility = -1

var facilities = map[string]Facility{
	"kern":     0,
	"user":     1,
	"mail":     2,
	"daemon":   3,
	"auth":     4,
	"syslog":   5,
	"lpr":      6,
	"news":     7,
	"uucp":     8,
	"cron":     9,
	"authpriv": 10,
	"ftp":      11,
	"local0":   16,
	"local1":   17,
	"local2":   18,
	"local3":   19,
	"local4":   20,
	"local5":   21,
	"local6":   22,
	"local7":   23,
}

// ParseFacility resolves a facility name such as "local7" or "daemon".
func ParseFacility(name string) (Facility, error) {
	if f, ok := facilities[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return facilityNone, fmtErrorf("unknown syslog facility '%s'", name)
}

// FacilityName returns the name of a facility code, empty if unknown.
func FacilityName(f Facility) string {
	for name, v := range facilities {
		if v == f {
			return name
		}
	}
	return ""
}

// journalSender matches journal.Send.
type journalSender func(message string, priority journal.Priority, vars map[string]string) error

// SyslogSink submits records to the system log through the journal socket.
// An unknown facility or an unreachable journal leaves it permanently inert.
type SyslogSink struct {
	facility   Facility
	identifier string
	fmt        *Formatter
	send       journalSender
	diag       reporter
	inert      bool
	failed     bool
}

// NewSyslogSink creates a sink for the named facility.
func NewSyslogSink(facility, identifier string, f *Formatter, rep reporter) *SyslogSink {
	return newSyslogSink(facility, identifier, f, rep, journal.Send, journal.Enabled())
}

func newSyslogSink(facility, identifier string, f *Formatter, rep reporter, send journalSender, available bool) *SyslogSink {
	if f == nil {
		f = NewFormatter(nil, false)
	}
	if identifier == "" {
		identifier = "mclog"
	}
	s := &SyslogSink{facility: facilityNone, identifier: identifier, fmt: f, send: send, diag: rep}

	fac, err := ParseFacility(facility)
	if err != nil {
		rep.printf("syslog sink disabled: %v", err)
		s.inert = true
		return s
	}
	s.facility = fac

	if !available {
		rep.printf("syslog sink disabled: journal socket unavailable")
		s.inert = true
	}
	return s
}

func (s *SyslogSink) Inert() bool { return s.inert }

// Facility returns the resolved facility, or -1 when inert from a bad name.
func (s *SyslogSink) Facility() Facility { return s.facility }

func (s *SyslogSink) HandleLog(r *Record) {
	if s.inert {
		return
	}

	vars := map[string]string{
		"SYSLOG_FACILITY":   strconv.Itoa(int(s.facility)),
		"SYSLOG_IDENTIFIER": s.identifier,
		"SYSLOG_PID":        strconv.Itoa(r.ProcessID()),
		"CODE_FILE":         r.FileName(),
		"CODE_LINE":         strconv.Itoa(r.Line()),
		"CODE_FUNC":         r.FunctionName(),
		"THREAD_NAME":       r.ThreadName(),
		"CATEGORY":          FormatCategoryMask(r.Category()),
	}

	// The formatter buffer is reused, so the message is copied out
	msg := string(s.fmt.FormatRecord(r))
	if err := s.send(msg, severityPriority(r.Severity()), vars); err != nil {
		// Report the first failure only; the journal may come back later
		if !s.failed {
			s.failed = true
			s.diag.printf("syslog submit failed: %v", err)
		}
		return
	}
	s.failed = false
}

// severityPriority maps a severity onto journal priorities, which share the
// syslog numbering.
func severityPriority(level Severity) journal.Priority {
	if level >= SeverityEmerg && level <= SeverityDebug {
		return journal.Priority(level)
	}
	return journal.PriNotice
}
