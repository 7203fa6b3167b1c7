package config

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dealerledger/internal/common"
	"github.com/dmitrijs2005/dealerledger/internal/storage/codec"
)

// Log formats accepted by LogFormat.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds runtime settings for the ledger CLI.
type Config struct {
	RootDir   string
	SlotWidth int
	LogLevel  string
	LogFormat string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.RootDir = "./data"
	c.SlotWidth = codec.DefaultSlotWidth
	c.LogLevel = "info"
	c.LogFormat = LogFormatAuto
	c.S3Region = "us-east-1"
	c.S3Prefix = "snapshots"
}

// SnapshotsEnabled reports whether an S3 bucket is configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.S3Bucket != ""
}

// Validate checks the settings the storage engine depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.RootDir == "" {
		errs = append(errs, errors.New("root dir is empty"))
	}
	if c.SlotWidth < 2 {
		errs = append(errs, fmt.Errorf("slot width %d is below 2", c.SlotWidth))
	}
	switch c.LogFormat {
	case LogFormatAuto, LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file named in args
// (if any), then the flags in args. Later sources take precedence.
// args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
