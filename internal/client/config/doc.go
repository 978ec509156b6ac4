// Package config loads runtime configuration for the homepoint admin client.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c / -config. Files ending in
//     ".toml" are decoded with BurntSushi/toml, anything else as JSON.
//  3. Environment: an optional dotenv file (-e / -env-file, or ./.env when
//     present) is loaded first, then HOMEPOINT_* variables are decoded.
//  4. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the admin REST API
//	-t duration request timeout (e.g. 15s)
//	-d string   path to the local sqlite credential store
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations accept "15s" strings or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.example.com",
//	  "request_timeout": "15s",
//	  "database_path": "homepoint.db",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "cache_gc_grace": "5m",
//	  "metrics_addr": "127.0.0.1:9102",
//	  "s3": {"region": "eu-central-1", "endpoint": "", "access_key": "", "secret_key": ""}
//	}
package config
