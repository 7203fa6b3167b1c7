package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/dealerledger/internal/flagx"
)

var ownFlags = []string{"-r", "-w", "-l", "-f", "-b", "-g", "-e", "-u", "-p", "-x"}

// parseFlags overlays cfg with the flags it owns. Other arguments, such as
// -c, are filtered out before parsing.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.RootDir, "r", cfg.RootDir, "ledger root directory")
	fs.IntVar(&cfg.SlotWidth, "w", cfg.SlotWidth, "record slot width in bytes")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: text, json or auto")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for snapshots")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 endpoint override")
	fs.StringVar(&cfg.S3AccessKey, "u", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "p", cfg.S3SecretKey, "S3 secret key")
	fs.StringVar(&cfg.S3Prefix, "x", cfg.S3Prefix, "key prefix of snapshot objects")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
