package rewriter

import (
	"io/ioutil"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"

	"github.com/tenantql/go-sql-rewriter/sql/rewrite"
)

// ErrInvalidConfig is returned when a configuration cannot be used.
var ErrInvalidConfig = errors.NewKind("invalid config: %s")

// Config of an Engine.
type Config struct {
	// Debug logs every rule applied to a query.
	Debug bool `yaml:"debug"`
	// LogLevel is the logrus level name.
	LogLevel string `yaml:"log_level"`
	// MaxIterations bounds the fixed point rules.
	MaxIterations int              `yaml:"max_iterations"`
	TimeWindow    TimeWindowConfig `yaml:"time_window"`
	Histogram     HistogramConfig  `yaml:"histogram"`
}

// TimeWindowConfig is the time window applied when a request does not give
// one.
type TimeWindowConfig struct {
	LowerBoundDays int    `yaml:"lower_bound_days"`
	UpperBoundDate string `yaml:"upper_bound_date"`
}

// HistogramConfig is the histogram built when a request does not describe
// one.
type HistogramConfig struct {
	Bins  int    `yaml:"bins"`
	Field string `yaml:"field"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      logrus.InfoLevel.String(),
		MaxIterations: rewrite.DefaultMaxIterations,
		TimeWindow: TimeWindowConfig{
			LowerBoundDays: -7,
			UpperBoundDate: rewrite.OpenUpperBound,
		},
		Histogram: HistogramConfig{
			Bins:  50,
			Field: rewrite.TimestampColumn,
		},
	}
}

// ParseConfig parses a YAML configuration. Missing fields keep their
// default value.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ErrInvalidConfig.Wrap(err, "malformed yaml")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfig reads and parses the YAML configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidConfig.Wrap(err, path)
	}

	return ParseConfig(data)
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxIterations < 1 {
		return ErrInvalidConfig.New("max_iterations must be at least 1")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return ErrInvalidConfig.Wrap(err, "log_level")
	}

	if c.Histogram.Bins < 1 {
		return ErrInvalidConfig.New("histogram.bins must be at least 1")
	}

	if c.Histogram.Field == "" {
		return ErrInvalidConfig.New("histogram.field is required")
	}

	if !c.timeWindow().IsOpen() {
		if _, err := cast.ToTimeE(c.TimeWindow.UpperBoundDate); err != nil {
			return ErrInvalidConfig.Wrap(err, "time_window.upper_bound_date")
		}
	}

	return nil
}

func (c *Config) timeWindow() rewrite.TimeWindow {
	return rewrite.TimeWindow{
		LowerBoundInDays: c.TimeWindow.LowerBoundDays,
		UpperBoundDate:   c.TimeWindow.UpperBoundDate,
	}
}

func (c *Config) histogram() rewrite.Histogram {
	return rewrite.Histogram{
		Bins:  c.Histogram.Bins,
		Field: c.Histogram.Field,
	}
}
