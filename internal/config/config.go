package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type OpenAIConfig struct {
	APIKey string `json:"api_key"`
	URL    string `json:"url"`
	Model  string `json:"model"`
}

type LimitsConfig struct {
	FreeTailorsPerMonth      int `json:"free_tailors_per_month"`
	FreeCoverLettersPerMonth int `json:"free_cover_letters_per_month"`
}

type Config struct {
	Server struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Subpath   string `json:"subpath"`
		JWTSecret string `json:"jwtSecret"`
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	OpenAI OpenAIConfig `json:"openai"`
	Limits LimitsConfig `json:"limits"`
	CORS   struct {
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"cors"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		// The OpenAI key may live in the environment instead of the file
		if c.OpenAI.APIKey == "" {
			c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if c.OpenAI.URL == "" {
			c.OpenAI.URL = "https://api.openai.com/v1/chat/completions"
		}
		if c.OpenAI.Model == "" {
			c.OpenAI.Model = "gpt-4o-mini"
		}
		if c.Limits.FreeTailorsPerMonth == 0 {
			c.Limits.FreeTailorsPerMonth = 3
		}
		if c.Limits.FreeCoverLettersPerMonth == 0 {
			c.Limits.FreeCoverLettersPerMonth = 3
		}
		cfg = &c
	})
	return cfg, cfgErr
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
