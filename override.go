package mclog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyConfigString applies "key=value" overrides on top of the logger's
// current configuration and then configures the logger with the result.
//
// Example:
//
//	logger := mclog.NewLogger()
//	err := logger.ApplyConfigString(
//	    "categories=general,record,noupnp",
//	    "severity=debug",
//	    "log_file=/var/log/mythbackend.log",
//	)
func (l *Logger) ApplyConfigString(overrides ...string) error {
	cfg := l.getConfig().Clone()
	if err := cfg.ApplyOverrides(overrides...); err != nil {
		return err
	}
	return l.ApplyConfig(cfg)
}

// ApplyOverrides applies "key=value" strings to c, collecting every error.
func (c *Config) ApplyOverrides(overrides ...string) error {
	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(c, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	return combineConfigErrors(errors)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("mclog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "mclog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Filter
	case "categories":
		if _, err := ParseCategoryExpression(value); err != nil {
			return fmtErrorf("invalid categories value '%s': %w", value, err)
		}
		cfg.Categories = value
	case "severity":
		// Accept both names and numeric levels
		if numVal, err := strconv.Atoi(value); err == nil {
			e, ok := Severities().ByValue(Severity(numVal))
			if !ok {
				return fmtErrorf("invalid severity value '%s'", value)
			}
			cfg.Severity = e.Name
			return nil
		}
		if _, err := ResolveSeverity(value); err != nil {
			return fmtErrorf("invalid severity value '%s': %w", value, err)
		}
		cfg.Severity = strings.ToLower(strings.TrimSpace(value))

	// Destinations
	case "syslog_facility":
		cfg.SyslogFacility = value
	case "syslog_identifier":
		cfg.SyslogIdentifier = value
	case "log_file":
		cfg.LogFile = value
	case "log_path_prefix":
		cfg.LogPathPrefix = value

	// Dispatch and queue
	case "use_worker":
		return setBool(&cfg.UseWorker, key, value)
	case "batch_size":
		return setInt(&cfg.BatchSize, key, value)
	case "queue_fast":
		return setInt(&cfg.QueueFast, key, value)
	case "queue_slow":
		return setInt(&cfg.QueueSlow, key, value)
	case "queue_hard":
		return setInt(&cfg.QueueHard, key, value)
	case "throttle_floor_us":
		return setInt(&cfg.ThrottleFloorUs, key, value)
	case "throttle_step_us":
		return setInt(&cfg.ThrottleStepUs, key, value)
	case "throttle_max_us":
		return setInt(&cfg.ThrottleMaxUs, key, value)

	// Console
	case "quiet":
		return setInt(&cfg.Quiet, key, value)
	case "console_color":
		return setBool(&cfg.ConsoleColor, key, value)
	case "sanitize":
		return setBool(&cfg.Sanitize, key, value)

	// Maintenance
	case "heartbeat_interval_s":
		return setInt(&cfg.HeartbeatIntervalS, key, value)
	case "watch_log_file":
		return setBool(&cfg.WatchLogFile, key, value)
	case "handle_sighup":
		return setBool(&cfg.HandleSighup, key, value)

	case "internal_errors":
		return setBool(&cfg.InternalErrors, key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}

func setBool(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}
