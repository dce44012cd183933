package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"p12expiry/internal/logger"
	"p12expiry/pkg/models"
)

// ErrUsage marks missing or malformed command line arguments.
var ErrUsage = errors.New("usage error")

// ErrHelp is returned when -h or -help was requested.
var ErrHelp = flag.ErrHelp

// OutputFormat selects how the check result is written to stdout.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config is produced once per run and not modified afterwards.
type Config struct {
	Check  CheckConfig  `json:"check"`
	Output OutputConfig `json:"output"`
	Log    LogConfig    `json:"log"`

	ShowVersion bool `json:"-"`
}

// CheckConfig holds what to check and how to classify it.
type CheckConfig struct {
	Path       string `json:"path"`
	Passphrase string `json:"-"`
	SoonDays   int    `json:"soon_days"`
	TimeZone   string `json:"time_zone"`
	// NotAfter, when set, replaces the archive lookup with an
	// OpenSSL-formatted expiration timestamp.
	NotAfter string `json:"not_after,omitempty"`
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Quiet       bool         `json:"quiet"`
	Debug       bool         `json:"debug"`
	Format      OutputFormat `json:"format"`
	MetricsFile string       `json:"metrics_file,omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func defaults() *Config {
	return &Config{
		Check: CheckConfig{
			SoonDays: models.DefaultSoonThresholdDays,
			TimeZone: "Local",
		},
		Output: OutputConfig{
			Format: OutputText,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load builds the configuration from environment variables and then the
// given arguments (without the program name). Flags take precedence over
// environment variables.
func Load(args []string) (*Config, error) {
	cfg := defaults()

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.loadFromArgs(args); err != nil {
		return nil, err
	}

	if cfg.ShowVersion {
		return cfg, nil
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() error {
	if v := os.Getenv("P12EXPIRY_QUIET"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid P12EXPIRY_QUIET value '%s': %w", v, err)
		}
		c.Output.Quiet = b
	}

	if v := os.Getenv("P12EXPIRY_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid P12EXPIRY_DEBUG value '%s': %w", v, err)
		}
		c.Output.Debug = b
	}

	if v := os.Getenv("P12EXPIRY_SOON_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid P12EXPIRY_SOON_DAYS value '%s': %w", v, err)
		}
		c.Check.SoonDays = n
	}

	if v := os.Getenv("P12EXPIRY_OUTPUT"); v != "" {
		c.Output.Format = OutputFormat(strings.ToLower(v))
	}

	if v := os.Getenv("P12EXPIRY_TZ"); v != "" {
		c.Check.TimeZone = v
	}

	if v := os.Getenv("P12EXPIRY_METRICS_FILE"); v != "" {
		c.Output.MetricsFile = v
	}

	if v := os.Getenv("P12EXPIRY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if v := os.Getenv("P12EXPIRY_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	return nil
}

// loadFromArgs parses flags and the two positional arguments.
func (c *Config) loadFromArgs(args []string) error {
	fs := newFlagSet(c)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if c.ShowVersion {
		return nil
	}

	if fs.NArg() != 2 {
		return fmt.Errorf("%w: expected <archive-path> <passphrase>, got %d argument(s)", ErrUsage, fs.NArg())
	}

	c.Check.Path = fs.Arg(0)
	c.Check.Passphrase = fs.Arg(1)

	if c.Output.Debug {
		c.Log.Level = "debug"
	}

	return nil
}

func newFlagSet(c *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("p12expiry", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&c.Output.Quiet, "q", c.Output.Quiet, "Quiet: print nothing while the certificate is healthy")
	fs.BoolVar(&c.Output.Debug, "d", c.Output.Debug, "Debug: print intermediate time calculations")
	fs.IntVar(&c.Check.SoonDays, "soon-days", c.Check.SoonDays, "Report expiring soon below this many days")
	fs.Func("output", "Output format: 'text' or 'json'", func(s string) error {
		c.Output.Format = OutputFormat(strings.ToLower(s))
		return nil
	})
	fs.StringVar(&c.Check.TimeZone, "tz", c.Check.TimeZone, "Time zone for calendar days (IANA name or 'Local')")
	fs.StringVar(&c.Output.MetricsFile, "metrics-file", c.Output.MetricsFile, "Write Prometheus textfile metrics to this path")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "Log level: debug, info, warn, error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "Log format: text or json")
	fs.StringVar(&c.Check.NotAfter, "not-after", c.Check.NotAfter, "Classify this OpenSSL-formatted expiration instead of reading the archive")
	fs.BoolVar(&c.ShowVersion, "version", false, "Print version information and exit")

	return fs
}

// validate ensures the configuration is valid
func (c *Config) validate() error {
	if c.Check.Path == "" {
		return fmt.Errorf("%w: archive path cannot be empty", ErrUsage)
	}

	if c.Check.SoonDays < 2 {
		return fmt.Errorf("%w: soon-days must be at least 2, got %d", ErrUsage, c.Check.SoonDays)
	}

	switch c.Output.Format {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: invalid output format '%s': must be 'text' or 'json'", ErrUsage, c.Output.Format)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return nil
}

// Usage writes the command synopsis and flag defaults to w.
func Usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: p12expiry [-q] [-d] [flags] <archive-path> <passphrase>\n\n")
	fs := newFlagSet(defaults())
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// String returns a representation of the config for debugging. The
// passphrase is never included.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Check: {Path: %s, SoonDays: %d, TimeZone: %s}, Output: {Quiet: %t, Debug: %t, Format: %s}}",
		c.Check.Path, c.Check.SoonDays, c.Check.TimeZone, c.Output.Quiet, c.Output.Debug, c.Output.Format)
}
