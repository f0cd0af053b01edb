package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devilmonastery/storefront/internal/client"
	"github.com/devilmonastery/storefront/internal/login"
)

// Context represents a named configuration context (like kubectl contexts)
type Context struct {
	Server struct {
		URL       string        `yaml:"url"`
		TokenPath string        `yaml:"token_path,omitempty"`
		HomePath  string        `yaml:"home_path,omitempty"`
		Timeout   time.Duration `yaml:"timeout,omitempty"`
	} `yaml:"server"`
	Rendering struct {
		Theme string `yaml:"theme"`
	} `yaml:"rendering"`
}

// Config represents the CLI configuration with multiple contexts
type Config struct {
	CurrentContext string              `yaml:"current-context"`
	Contexts       map[string]*Context `yaml:"contexts"`
}

// NewContext returns a context for the login page at url with default paths
func NewContext(url string) *Context {
	ctx := &Context{}
	ctx.Server.URL = url
	ctx.Server.TokenPath = login.DefaultTokenPath
	ctx.Server.HomePath = login.DefaultHomePath
	ctx.Rendering.Theme = "auto"
	return ctx
}

// DefaultConfig returns the default configuration with a single "dev" context
func DefaultConfig() *Config {
	return &Config{
		CurrentContext: "dev",
		Contexts: map[string]*Context{
			"dev": NewContext("http://localhost:8000/"),
		},
	}
}

// GetCurrentContext returns the current active context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}

	ctx, ok := c.Contexts[c.CurrentContext]
	if !ok {
		return nil, fmt.Errorf("current context %q not found", c.CurrentContext)
	}

	return ctx, nil
}

// SetCurrentContext sets the current active context
func (c *Config) SetCurrentContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q does not exist", name)
	}
	c.CurrentContext = name
	return nil
}

// AddContext adds or updates a context
func (c *Config) AddContext(name string, ctx *Context) {
	if c.Contexts == nil {
		c.Contexts = make(map[string]*Context)
	}
	c.Contexts[name] = ctx
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if name == c.CurrentContext {
		return fmt.Errorf("cannot delete current context %q", name)
	}
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q does not exist", name)
	}
	delete(c.Contexts, name)
	return nil
}

// PageURL returns the login page URL of this context. STOREFRONT_URL wins
// over the configured value.
func (ctx *Context) PageURL() string {
	if env := os.Getenv("STOREFRONT_URL"); env != "" {
		return env
	}
	return ctx.Server.URL
}

// HomePath returns the post-login location, defaulting to home.html
func (ctx *Context) HomePath() string {
	if ctx.Server.HomePath == "" {
		return login.DefaultHomePath
	}
	return ctx.Server.HomePath
}

// ClientConfig returns the token client configuration for this context
func (ctx *Context) ClientConfig() client.Config {
	return client.Config{
		PageURL:   ctx.PageURL(),
		TokenPath: ctx.Server.TokenPath,
		Timeout:   ctx.Server.Timeout,
	}
}

// GetConfigPath returns the path to the config file. STOREFRONT_CONFIG
// overrides the default ~/.storefront.
func GetConfigPath() (string, error) {
	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".storefront"), nil
}

// LoadConfig loads configuration, creating the file with defaults on first use
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultConfig := DefaultConfig()
		if err := SaveConfig(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return defaultConfig, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure we have a valid current context
	if config.CurrentContext == "" && len(config.Contexts) > 0 {
		for name := range config.Contexts {
			config.CurrentContext = name
			break
		}
	}

	return &config, nil
}

// SaveConfig writes the configuration file
func SaveConfig(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
