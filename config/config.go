package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CIDgravity/snakelet"
	"github.com/bhanuprakash1708/GitHub-HireScore/model"
)

// config structure
type Config struct {
	API    APIConfig    `mapstructure:"API"`
	Github GithubConfig `mapstructure:"GITHUB"`
	Gemini GeminiConfig `mapstructure:"GEMINI"`
	Tasks  TasksConfig  `mapstructure:"TASKS"`
	Logs   LogsConfig   `mapstructure:"LOGS"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

type GithubConfig struct {
	Token           string `mapstructure:"Token"` // always overridden by GITHUB_TOKEN when set, required
	CacheTTLMinutes int    `mapstructure:"CacheTTLMinutes"`
	CacheSize       int    `mapstructure:"CacheSize"`
}

type GeminiConfig struct {
	APIKey          string   `mapstructure:"ApiKey"` // always overridden by GEMINI_API_KEY when set, required
	Models          []string `mapstructure:"Models"` // ordered fallback chain, first entry is preferred
	CacheTTLMinutes int      `mapstructure:"CacheTTLMinutes"`
	CacheSize       int      `mapstructure:"CacheSize"`
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJson"`
}

// Load
func Load() (*Config, error) {
	cfg := GetDefault()

	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return nil, err
	}

	// check config file next to the binary, then in the working directory
	// running without a file is fine, defaults plus environment cover everything
	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			configFilePath = ""
		} else {
			configFilePath = "config/config.toml"
		}
	}

	if configFilePath != "" {
		if _, err := snakelet.InitAndLoad(cfg, configFilePath); err != nil {
			return nil, err
		}
	}

	// credentials come from the environment so they never live in the file
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Github.Token = token
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the parts of the configuration the services cannot run without
func (cfg *Config) Validate() error {
	if cfg.Github.Token == "" {
		return fmt.Errorf("%w: GITHUB_TOKEN is not set", model.ErrMissingCredentials)
	}

	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY is not set", model.ErrMissingCredentials)
	}

	if len(cfg.Gemini.Models) == 0 {
		return errors.New("at least one gemini model must be configured")
	}

	return nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Github: GithubConfig{
			CacheTTLMinutes: 10,
			CacheSize:       256,
		},
		Gemini: GeminiConfig{
			Models:          []string{"gemini-2.0-flash", "gemini-2.0-flash-lite", "gemini-1.5-flash"},
			CacheTTLMinutes: 15,
			CacheSize:       256,
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
	}
}
