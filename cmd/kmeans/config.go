package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of one clustering run. It is read from an
// optional YAML file and overlaid by command line flags.
type Config struct {
	Input     string  `yaml:"input" validate:"required"`
	K         int     `yaml:"k" validate:"min=0"`
	Delimiter string  `yaml:"delimiter" validate:"required"`
	Epsilon   float64 `yaml:"epsilon"`

	// Limit caps the number of passes; 0 means unlimited.
	Limit uint32 `yaml:"limit"`

	Output   string `yaml:"output"`
	Clusters string `yaml:"clusters"`
	Format   string `yaml:"format" validate:"oneof=text json"`
	Strict   bool   `yaml:"strict"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`

	// ReadLimit bounds the input read throughput in bytes per second; 0
	// disables throttling.
	ReadLimit int `yaml:"read_limit" validate:"min=0"`

	S3    S3Config    `yaml:"s3"`
	MinIO MinIOConfig `yaml:"minio"`
}

// S3Config configures s3:// locations. Credentials come from the default
// AWS configuration chain.
type S3Config struct {
	Region string `yaml:"region"`
}

// MinIOConfig configures minio:// locations.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint" validate:"omitempty,hostname_port"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

// DefaultConfig returns the settings used when neither file nor flags
// override them.
func DefaultConfig() Config {
	return Config{
		K:         5,
		Delimiter: ",",
		Format:    "text",
		LogLevel:  "info",
	}
}

var validate = validator.New()

// Validate checks the struct tags and the delimiter.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, formatFieldError(e))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	if _, err := c.Delim(); err != nil {
		return err
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Delim returns the field delimiter. `\t` and "tab" select a tab.
func (c *Config) Delim() (rune, error) {
	switch c.Delimiter {
	case `\t`, "tab":
		return '\t', nil
	}
	r, n := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError || n != len(c.Delimiter) {
		return 0, fmt.Errorf("invalid config: delimiter must be a single character, got %q", c.Delimiter)
	}
	return r, nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// LoadConfig decodes a YAML config over cfg. Unknown keys are rejected.
func LoadConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// parseArgs builds the run configuration: defaults, then the file named by
// -config, then every flag given explicitly.
func parseArgs(args []string, stderr io.Writer) (Config, error) {
	fs := flag.NewFlagSet("kmeans", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "YAML config file")
		input      = fs.String("input", "", "input points: path, s3://bucket/key or minio://bucket/key")
		k          = fs.Int("k", 0, "number of clusters (default 5)")
		delim      = fs.String("delim", "", `field delimiter (default ","; \t for tab)`)
		epsilon    = fs.Float64("epsilon", 0, "convergence tolerance")
		limit      = fs.Uint("limit", 0, "maximum number of passes (0 = unlimited)")
		output     = fs.String("output", "", "centroid output location (default stdout)")
		clusters   = fs.String("clusters", "", "write each cluster to <clusters><index>.dat")
		format     = fs.String("format", "", "stdout format: text or json")
		strict     = fs.Bool("strict", false, "fail on malformed input instead of repairing it")
		logLevel   = fs.String("log-level", "", "log level: debug, info, warn or error")
		metrics    = fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
		readLimit  = fs.Int("read-limit", 0, "input read limit in bytes per second")
	)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			return Config{}, err
		}
		err = LoadConfig(f, &cfg)
		_ = f.Close()
		if err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "k":
			cfg.K = *k
		case "delim":
			cfg.Delimiter = *delim
		case "epsilon":
			cfg.Epsilon = *epsilon
		case "limit":
			cfg.Limit = uint32(min(*limit, math.MaxUint32))
		case "output":
			cfg.Output = *output
		case "clusters":
			cfg.Clusters = *clusters
		case "format":
			cfg.Format = *format
		case "strict":
			cfg.Strict = *strict
		case "log-level":
			cfg.LogLevel = *logLevel
		case "metrics-addr":
			cfg.MetricsAddr = *metrics
		case "read-limit":
			cfg.ReadLimit = *readLimit
		}
	})

	if cfg.Input == "" && fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
