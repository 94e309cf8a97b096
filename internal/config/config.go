package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env     string        `yaml:"env"`     // Env is the current environment: local, development, production.
	HRAPI   HRAPIConfig   `yaml:"hrapi"`   // HRAPI holds the employee/auth backend configuration.
	Session SessionConfig `yaml:"session"` // Session holds the persisted session storage configuration.
	Monitor MonitorConfig `yaml:"monitor"` // Monitor holds the health/metrics server configuration.
	Refresh RefreshConfig `yaml:"refresh"` // Refresh holds the dashboard refresh loop configuration.
}

// HRAPIConfig struct holds connection details for the remote HR backend.
type HRAPIConfig struct {
	BaseURL  string        `yaml:"url"`      // BaseURL is the employee resource root, e.g. `https://hr.example.com/employees`.
	AuthURL  string        `yaml:"auth_url"` // AuthURL is the authentication root, e.g. `https://hr.example.com/auth`.
	Timeout  time.Duration `yaml:"timeout"`  // Timeout bounds every request to the backend.
	Strategy string        `yaml:"strategy"` // Strategy selects the paging workaround: `reslice` or `invert`.
}

// SessionConfig struct holds the location of the persisted identity/token slots.
type SessionConfig struct {
	Dir string `yaml:"dir"` // Dir is the directory holding the identity and token files.
}

// MonitorConfig struct holds the monitoring HTTP server parameters.
type MonitorConfig struct {
	Port int `yaml:"port"` // Port is the port serving /healthz and /metrics.
}

// RefreshConfig struct holds the periodic dashboard refresh parameters.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"` // Interval is the time between dashboard snapshots.
	Email    string        `yaml:"email"`    // Email is the optional account used to log in on start.
	Password string        `yaml:"password"` // Password is the password for the account above.
}

// MustLoad loads the configuration from a YAML file and returns a Config struct.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic("config path is empty")
	}

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		panic("config error: " + err.Error())
	}

	defRefreshHours := 12
	defTimeoutSeconds := 15
	defMonitorPort := 8080

	viper.SetDefault("hrapi.timeout", time.Duration(defTimeoutSeconds*int(time.Second)))
	viper.SetDefault("hrapi.strategy", "reslice")
	viper.SetDefault("monitor.port", defMonitorPort)
	viper.SetDefault("refresh.interval", time.Duration(defRefreshHours*int(time.Hour)))

	return &Config{
		Env: viper.GetString("env"),
		HRAPI: HRAPIConfig{
			BaseURL:  viper.GetString("hrapi.url"),
			AuthURL:  viper.GetString("hrapi.auth_url"),
			Timeout:  viper.GetDuration("hrapi.timeout"),
			Strategy: viper.GetString("hrapi.strategy"),
		},
		Session: SessionConfig{
			Dir: viper.GetString("session.dir"),
		},
		Monitor: MonitorConfig{
			Port: viper.GetInt("monitor.port"),
		},
		Refresh: RefreshConfig{
			Interval: viper.GetDuration("refresh.interval"),
			Email:    viper.GetString("refresh.email"),
			Password: viper.GetString("refresh.password"),
		},
	}
}
