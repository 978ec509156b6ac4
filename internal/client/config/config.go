package config

import "time"

// Config holds runtime settings for the admin client.
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	DatabasePath    string
	StorePassphrase string
	LogLevel        string
	LogFormat       string
	CacheGCGrace    time.Duration
	MetricsAddr     string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "homepoint.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.CacheGCGrace = 5 * time.Minute
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config from defaults, the config file, the environment
// and finally args (usually os.Args[1:]). It panics on malformed input, the
// same way flag.PanicOnError does.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
