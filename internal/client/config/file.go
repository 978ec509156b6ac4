package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/homepoint/internal/flagx"
	"github.com/dmitrijs2005/homepoint/internal/timex"
)

// FileConfig mirrors Config for file decoding. Zero values mean "not set"
// and leave the current setting untouched.
type FileConfig struct {
	APIBaseURL      string         `json:"api_base_url" toml:"api_base_url"`
	RequestTimeout  timex.Duration `json:"request_timeout" toml:"request_timeout"`
	DatabasePath    string         `json:"database_path" toml:"database_path"`
	StorePassphrase string         `json:"store_passphrase" toml:"store_passphrase"`
	LogLevel        string         `json:"log_level" toml:"log_level"`
	LogFormat       string         `json:"log_format" toml:"log_format"`
	CacheGCGrace    timex.Duration `json:"cache_gc_grace" toml:"cache_gc_grace"`
	MetricsAddr     string         `json:"metrics_addr" toml:"metrics_addr"`
	S3              S3FileConfig   `json:"s3" toml:"s3"`
}

type S3FileConfig struct {
	Region    string `json:"region" toml:"region"`
	Endpoint  string `json:"endpoint" toml:"endpoint"`
	AccessKey string `json:"access_key" toml:"access_key"`
	SecretKey string `json:"secret_key" toml:"secret_key"`
}

func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.StorePassphrase, fc.StorePassphrase)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	setString(&cfg.S3Region, fc.S3.Region)
	setString(&cfg.S3Endpoint, fc.S3.Endpoint)
	setString(&cfg.S3AccessKey, fc.S3.AccessKey)
	setString(&cfg.S3SecretKey, fc.S3.SecretKey)
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.CacheGCGrace.Duration != 0 {
		cfg.CacheGCGrace = fc.CacheGCGrace.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
