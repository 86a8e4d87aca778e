package mclog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all logger configuration values
type Config struct {
	// Filter
	Categories string `toml:"categories"` // Category expression, e.g. "general,mheg,noupnp"
	Severity   string `toml:"severity"`   // Threshold severity name

	// Destinations
	SyslogFacility   string `toml:"syslog_facility"`   // Facility name or "none"
	SyslogIdentifier string `toml:"syslog_identifier"` // SYSLOG_IDENTIFIER sent to the journal
	LogFile          string `toml:"log_file"`          // Append-only file, empty disables
	LogPathPrefix    string `toml:"log_path_prefix"`   // Rotating path prefix, empty disables

	// Dispatch
	UseWorker bool  `toml:"use_worker"` // Background dispatch goroutine
	BatchSize int64 `toml:"batch_size"` // Records dispatched per sink lock hold

	// Queue thresholds, in records
	QueueFast int64 `toml:"queue_fast"` // Throttle decays at or below this depth
	QueueSlow int64 `toml:"queue_slow"` // Throttle grows at or above this depth
	QueueHard int64 `toml:"queue_hard"` // Records are dropped at this depth

	// Producer throttle, in microseconds
	ThrottleFloorUs int64 `toml:"throttle_floor_us"`
	ThrottleStepUs  int64 `toml:"throttle_step_us"`
	ThrottleMaxUs   int64 `toml:"throttle_max_us"`

	// Console
	Quiet        int64 `toml:"quiet"`         // 0=logs+prints, 1=prints only, 2=silent
	ConsoleColor bool  `toml:"console_color"` // Color severity codes on the console
	Sanitize     bool  `toml:"sanitize"`      // Hex-encode non-printable message bytes

	// Maintenance
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"` // 0 disables
	WatchLogFile       bool  `toml:"watch_log_file"`       // Reopen log_file when moved away
	HandleSighup       bool  `toml:"handle_sighup"`        // Rotate on SIGHUP

	// Internal error handling
	InternalErrors bool `toml:"internal_errors"` // Write logger diagnostics to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Categories: "general",
	Severity:   "info",

	SyslogFacility:   "none",
	SyslogIdentifier: "mclog",

	UseWorker: true,
	BatchSize: defaultBatchSize,

	QueueFast: defaultQueueFast,
	QueueSlow: defaultQueueSlow,
	QueueHard: defaultQueueHard,

	ThrottleFloorUs: defaultThrottleFloorUs,
	ThrottleStepUs:  defaultThrottleStepUs,
	ThrottleMaxUs:   maxThrottleUs,

	Quiet:        0,
	ConsoleColor: false,
	Sanitize:     true,

	HeartbeatIntervalS: 0,

	InternalErrors: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from the [log] table of a TOML file
// and returns a validated Config. A missing file yields defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as TOML under a [log] table.
func (c *Config) SaveConfig(path string) error {
	data, err := toml.Marshal(map[string]*Config{"log": c})
	if err != nil {
		return fmtErrorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmtErrorf("failed to create config directory '%s': %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmtErrorf("failed to write config '%s': %w", path, err)
	}
	return nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			// TOML decoders may surface whole numbers as floats
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if _, err := ParseCategoryExpression(c.Categories); err != nil {
		return fmtErrorf("invalid categories '%s': %w", c.Categories, err)
	}
	if _, err := ResolveSeverity(c.Severity); err != nil {
		return fmtErrorf("invalid severity: %w", err)
	}
	if strings.TrimSpace(c.SyslogFacility) == "" {
		return fmtErrorf("syslog_facility cannot be empty (use \"none\" to disable)")
	}

	if c.QueueHard <= 0 {
		return fmtErrorf("queue_hard must be positive: %d", c.QueueHard)
	}
	if c.QueueFast < 0 || c.QueueFast > c.QueueSlow || c.QueueSlow > c.QueueHard {
		return fmtErrorf("queue thresholds must satisfy 0 <= fast <= slow <= hard: %d, %d, %d",
			c.QueueFast, c.QueueSlow, c.QueueHard)
	}
	if c.BatchSize < 1 || c.BatchSize > 1024 {
		return fmtErrorf("batch_size must be between 1 and 1024: %d", c.BatchSize)
	}

	if c.ThrottleFloorUs < 0 || c.ThrottleStepUs < 0 {
		return fmtErrorf("throttle settings cannot be negative")
	}
	if c.ThrottleMaxUs < c.ThrottleFloorUs || c.ThrottleMaxUs > maxThrottleUs {
		return fmtErrorf("throttle_max_us must be between throttle_floor_us and %d: %d", maxThrottleUs, c.ThrottleMaxUs)
	}

	if c.Quiet < 0 || c.Quiet > 2 {
		return fmtErrorf("quiet must be between 0 and 2: %d", c.Quiet)
	}
	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	if c.WatchLogFile && c.LogFile == "" {
		return fmtErrorf("watch_log_file requires log_file")
	}

	return nil
}

// CategoryMask evaluates the category expression on top of the general
// category, which is enabled unless the expression removes it.
func (c *Config) CategoryMask() (Category, error) {
	expr, err := ParseCategoryExpression(c.Categories)
	if err != nil {
		return CategoryNone, err
	}
	return expr.Apply(CategoryGeneral), nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
