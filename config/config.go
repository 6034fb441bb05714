// Package config loads and validates the run options.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Configuration errors
var (
	ErrMissingQuery = fmt.Errorf("query is not provided and no snapshot import is set")
	ErrMissingToken = fmt.Errorf("personal access token is missing")
)

// Defaults for optional settings.
const (
	DefaultExport      = "data_latest"
	DefaultLimit       = 100
	DefaultSort        = "updated"
	DefaultOrder       = "desc"
	DefaultConcurrency = 1
	DefaultLogLevel    = "info"
)

// tokenFile is the fallback credential location in the working directory.
const tokenFile = "token"

// Config holds all configuration for one run
type Config struct {
	Query       string
	Limit       int
	Sort        string
	Order       string
	Export      string
	Import      string
	Token       string
	Concurrency int
	LogLevel    string
}

// NewConfig creates a new Config instance
func NewConfig() *Config {
	return &Config{}
}

// Load reads configuration from bound flags and environment variables and
// validates it. It fails before any network activity can happen: a run
// needs either a search query or a snapshot to import, and always a token.
func (c *Config) Load() error {
	viper.SetEnvPrefix("GHRANKER")
	viper.AutomaticEnv()

	c.Query = viper.GetString("query")
	c.Import = viper.GetString("import")
	if c.Query == "" && c.Import == "" {
		return ErrMissingQuery
	}

	c.Export = viper.GetString("export")
	if c.Export == "" {
		c.Export = DefaultExport
	}
	c.Limit = viper.GetInt("limit")
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	c.Sort = viper.GetString("sort")
	if c.Sort == "" {
		c.Sort = DefaultSort
	}
	c.Order = viper.GetString("order")
	if c.Order == "" {
		c.Order = DefaultOrder
	}
	c.Concurrency = viper.GetInt("concurrency")
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	c.LogLevel = viper.GetString("log-level")
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	token, err := resolveToken()
	if err != nil {
		return err
	}
	c.Token = token

	return nil
}

// resolveToken finds the access credential: the bound flag wins, then the
// GITHUB_TOKEN environment variable, then a ./token file.
func resolveToken() (string, error) {
	if token := viper.GetString("token"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if data, err := os.ReadFile(tokenFile); err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
	}
	return "", ErrMissingToken
}
