package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dealerledger/internal/flagx"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell an
// absent key apart from a zero value.
type JsonConfig struct {
	RootDir   *string `json:"root_dir"`
	SlotWidth *int    `json:"slot_width"`
	LogLevel  *string `json:"log_level"`
	LogFormat *string `json:"log_format"`
	S3        *struct {
		Bucket       *string `json:"bucket"`
		Region       *string `json:"region"`
		BaseEndpoint *string `json:"base_endpoint"`
		AccessKey    *string `json:"access_key"`
		SecretKey    *string `json:"secret_key"`
		Prefix       *string `json:"prefix"`
	} `json:"s3"`
}

// parseJson overlays cfg with the file named by -c or -config in args. It does
// nothing when neither flag is present.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set(&cfg.RootDir, jc.RootDir)
	set(&cfg.SlotWidth, jc.SlotWidth)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFormat, jc.LogFormat)
	if s3 := jc.S3; s3 != nil {
		set(&cfg.S3Bucket, s3.Bucket)
		set(&cfg.S3Region, s3.Region)
		set(&cfg.S3BaseEndpoint, s3.BaseEndpoint)
		set(&cfg.S3AccessKey, s3.AccessKey)
		set(&cfg.S3SecretKey, s3.SecretKey)
		set(&cfg.S3Prefix, s3.Prefix)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
