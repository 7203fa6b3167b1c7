// Package config loads runtime configuration for the ledger CLI.
//
// Sources and precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags:
//
//	-r string   ledger root directory
//	-w int      record slot width in bytes
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (text, json, auto)
//	-b string   S3 bucket for snapshots
//	-g string   S3 region
//	-e string   S3 endpoint override (MinIO, LocalStack)
//	-u string   S3 access key
//	-p string   S3 secret key
//	-x string   key prefix of snapshot objects
//
// # JSON schema
//
//	{
//	  "root_dir": "./data",
//	  "slot_width": 500,
//	  "log_level": "info",
//	  "log_format": "auto",
//	  "s3": {
//	    "bucket": "ledger-snapshots",
//	    "region": "us-east-1",
//	    "base_endpoint": "http://127.0.0.1:9000",
//	    "access_key": "minioadmin",
//	    "secret_key": "minioadmin",
//	    "prefix": "snapshots"
//	  }
//	}
//
// Keys missing from the file keep their previous value.
package config
