package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/dmitrijs2005/homepoint/internal/flagx"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// EnvConfig is decoded from HOMEPOINT_* environment variables.
type EnvConfig struct {
	APIBaseURL      string        `env:"HOMEPOINT_API_URL"`
	RequestTimeout  time.Duration `env:"HOMEPOINT_REQUEST_TIMEOUT"`
	DatabasePath    string        `env:"HOMEPOINT_DATABASE_PATH"`
	StorePassphrase string        `env:"HOMEPOINT_STORE_PASSPHRASE"`
	LogLevel        string        `env:"HOMEPOINT_LOG_LEVEL"`
	LogFormat       string        `env:"HOMEPOINT_LOG_FORMAT"`
	CacheGCGrace    time.Duration `env:"HOMEPOINT_CACHE_GC_GRACE"`
	MetricsAddr     string        `env:"HOMEPOINT_METRICS_ADDR"`
	S3Region        string        `env:"HOMEPOINT_S3_REGION"`
	S3Endpoint      string        `env:"HOMEPOINT_S3_ENDPOINT"`
	S3AccessKey     string        `env:"HOMEPOINT_S3_ACCESS_KEY"`
	S3SecretKey     string        `env:"HOMEPOINT_S3_SECRET_KEY"`
}

// parseEnv loads the dotenv file (if any) into the process environment and
// overlays cfg with the HOMEPOINT_* variables that are set. Variables that
// already exist in the environment are not overridden by the dotenv file.
func parseEnv(cfg *Config, args []string) {
	envFile := flagx.EnvFileFlag(args)
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	var ec EnvConfig
	if err := envdecode.Decode(&ec); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return
		}
		panic(err)
	}

	ec.apply(cfg)
}

func (ec *EnvConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, ec.APIBaseURL)
	setString(&cfg.DatabasePath, ec.DatabasePath)
	setString(&cfg.StorePassphrase, ec.StorePassphrase)
	setString(&cfg.LogLevel, ec.LogLevel)
	setString(&cfg.LogFormat, ec.LogFormat)
	setString(&cfg.MetricsAddr, ec.MetricsAddr)
	setString(&cfg.S3Region, ec.S3Region)
	setString(&cfg.S3Endpoint, ec.S3Endpoint)
	setString(&cfg.S3AccessKey, ec.S3AccessKey)
	setString(&cfg.S3SecretKey, ec.S3SecretKey)
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.CacheGCGrace != 0 {
		cfg.CacheGCGrace = ec.CacheGCGrace
	}
}
