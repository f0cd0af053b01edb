package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

// WebServerConfig represents the web server configuration
type WebServerConfig struct {
	Server     HTTPServer       `yaml:"server"`
	Storefront StorefrontConfig `yaml:"storefront"`
	Session    SessionConfig    `yaml:"session"`
	Login      LoginPageConfig  `yaml:"login"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// HTTPServer holds HTTP server configuration
type HTTPServer struct {
	Host string `yaml:"host" default:"localhost"`
	Port int    `yaml:"port" default:"8080"`
}

// StorefrontConfig describes where the token endpoint lives
type StorefrontConfig struct {
	// PageURL is the login page URL the token path resolves against
	PageURL   string        `yaml:"page_url" default:"http://localhost:8000/"`
	TokenPath string        `yaml:"token_path" default:"token"`
	HomePath  string        `yaml:"home_path" default:"home.html"`
	Timeout   time.Duration `yaml:"timeout" default:"0"` // 0 waits indefinitely
}

// SessionConfig holds session configuration
type SessionConfig struct {
	Secret string `yaml:"secret"` // 32-byte base64-encoded string
	MaxAge int    `yaml:"max_age"`
	Secure bool   `yaml:"secure"`
}

// LoginPageConfig holds login page content
type LoginPageConfig struct {
	Notice string `yaml:"notice"` // Markdown shown above the form
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`  // Log level: debug, info, warn, error
	Format string `yaml:"format" default:"json"` // Log format: json, text
}

// DefaultConfigPaths defines the default locations to search for web configuration files
var DefaultConfigPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./configs/web.yaml",
	"./configs/web.yml",
	"/etc/storefront/config.yaml",
	"/etc/storefront/config.yml",
}

// Default returns the configuration used when no file is found
func Default() *WebServerConfig {
	return &WebServerConfig{
		Server: HTTPServer{
			Host: "localhost",
			Port: 8080,
		},
		Storefront: StorefrontConfig{
			PageURL:   "http://localhost:8000/",
			TokenPath: "token",
			HomePath:  "home.html",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads the web server configuration from the specified file or default locations
func Load(configPath string) (*WebServerConfig, error) {
	config := Default()

	// If no config path is provided, search in default locations
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if !fileExists(configPath) {
			return nil, fmt.Errorf("config file %s not found", configPath)
		}
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment variables take precedence
	if pageURL := os.Getenv("STOREFRONT_URL"); pageURL != "" {
		config.Storefront.PageURL = pageURL
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		config.Session.Secret = secret
	}

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findConfigFile searches for a configuration file in default locations
func findConfigFile() string {
	for _, path := range DefaultConfigPaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// validate performs basic validation on the web configuration
func validate(config *WebServerConfig) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if config.Storefront.PageURL == "" {
		return fmt.Errorf("storefront.page_url cannot be empty")
	}
	u, err := url.Parse(config.Storefront.PageURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("storefront.page_url must be an absolute URL")
	}

	if config.Storefront.HomePath == "" {
		return fmt.Errorf("storefront.home_path cannot be empty")
	}
	if _, err := url.Parse(config.Storefront.HomePath); err != nil {
		return fmt.Errorf("storefront.home_path is not a valid URL reference: %w", err)
	}

	if config.Storefront.Timeout < 0 {
		return fmt.Errorf("storefront.timeout cannot be negative")
	}

	if config.Session.MaxAge < 0 {
		return fmt.Errorf("session.max_age cannot be negative")
	}

	return nil
}
