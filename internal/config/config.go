// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Monitor MonitorConfig `mapstructure:"monitor" yaml:"monitor"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Web     WebConfig     `mapstructure:"web" yaml:"web"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// MonitorConfig configures the portal monitor itself: the account used to
// sign in, the institution whose payment link is checked, and the timing of
// the polling loop.
type MonitorConfig struct {
	Username      string        `mapstructure:"username" yaml:"username"`
	Password      string        `mapstructure:"password" yaml:"-"`
	Institution   string        `mapstructure:"institution" yaml:"institution"`
	Refresh       time.Duration `mapstructure:"refresh" yaml:"refresh"`
	RenderTimeout time.Duration `mapstructure:"render_timeout" yaml:"render_timeout"`
}

// BrowserConfig holds settings for the headless Chrome instance.
type BrowserConfig struct {
	Headless     bool   `mapstructure:"headless" yaml:"headless"`
	Persistent   bool   `mapstructure:"persistent" yaml:"persistent"`
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	WindowWidth  int    `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight int    `mapstructure:"window_height" yaml:"window_height"`
}

// WebConfig configures the HTTP endpoint that exposes the latest snapshot.
type WebConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// Addr returns the listen address for the web server.
func (w WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "ghiseul-monitor")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Monitor --
	v.SetDefault("monitor.username", "")
	v.SetDefault("monitor.password", "")
	v.SetDefault("monitor.institution", "")
	v.SetDefault("monitor.refresh", "10m")
	v.SetDefault("monitor.render_timeout", "30s")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.persistent", true)
	v.SetDefault("browser.data_dir", "/tmp/chrome")
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)

	// -- Web --
	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("web.port", 8080)
	v.SetDefault("web.endpoint", "/monitor")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Keep the flat variable names of the original deployment working
	// alongside the GHISEUL_MONITOR_* forms produced by the env replacer.
	v.BindEnv("monitor.username", "GHISEUL_USERNAME")
	v.BindEnv("monitor.password", "GHISEUL_PASSWORD")
	v.BindEnv("monitor.institution", "GHISEUL_INSTITUTION")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	dir, err := homedir.Expand(cfg.Browser.DataDir)
	if err != nil {
		return nil, fmt.Errorf("invalid browser.data_dir: %w", err)
	}
	cfg.Browser.DataDir = dir

	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
// Credentials are only needed when the monitor actually runs, so the run
// command calls this rather than the loader.
func (c *Config) Validate() error {
	if c.Monitor.Username == "" {
		return fmt.Errorf("monitor.username is required (GHISEUL_USERNAME)")
	}
	if c.Monitor.Password == "" {
		return fmt.Errorf("monitor.password is required (GHISEUL_PASSWORD)")
	}
	if c.Monitor.Institution == "" {
		return fmt.Errorf("monitor.institution is required (GHISEUL_INSTITUTION)")
	}
	if c.Monitor.Refresh <= 0 {
		return fmt.Errorf("monitor.refresh must be a positive duration")
	}
	if c.Monitor.RenderTimeout <= 0 {
		return fmt.Errorf("monitor.render_timeout must be a positive duration")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser window size must be positive")
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port must be between 1 and 65535")
	}
	if !strings.HasPrefix(c.Web.Endpoint, "/") {
		return fmt.Errorf("web.endpoint must start with '/'")
	}
	return nil
}
