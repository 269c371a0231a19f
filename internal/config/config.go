package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read from the working directory unless --env says otherwise.
const DefaultEnvFile = ".env"

// Config is built once at startup and passed to whatever needs it.
type Config struct {
	EnvFile  string `json:"env_file"`
	LogLevel string `json:"log_level" env:"LOG_LEVEL" envDefault:"info"`
	Groq     struct {
		APIKey  string        `json:"api_key" env:"GROQ_API_KEY"`
		BaseURL string        `json:"base_url" env:"GROQ_API_URL" envDefault:"https://api.groq.com/openai/v1"`
		Timeout time.Duration `json:"timeout" env:"HTTP_TIMEOUT" envDefault:"60s"`
	} `json:"groq"`
	Image struct {
		FetchTimeout time.Duration `json:"fetch_timeout" env:"IMAGE_FETCH_TIMEOUT" envDefault:"30s"`
	} `json:"image"`
	Chat struct {
		Model       string  `json:"model" env:"CHAT_MODEL" envDefault:"llama3-70b-8192"`
		Temperature float32 `json:"temperature" env:"CHAT_TEMPERATURE" envDefault:"0.8"`
	} `json:"chat"`
	Vision struct {
		Model       string  `json:"model" env:"VISION_MODEL" envDefault:"llama-3.2-90b-vision-preview"`
		Temperature float32 `json:"temperature" env:"VISION_TEMPERATURE" envDefault:"1"`
		MaxTokens   int     `json:"max_tokens" env:"VISION_MAX_TOKENS" envDefault:"1024"`
		TopP        float32 `json:"top_p" env:"VISION_TOP_P" envDefault:"1"`
		Prompt      string  `json:"prompt" env:"VISION_PROMPT" envDefault:"Generates product descriptions for this item image."`
		Image       string  `json:"image" env:"VISION_IMAGE" envDefault:"https://m.media-amazon.com/images/I/61PkbgkViUL._AC_SY879_.jpg"`
	} `json:"vision"`
}

// Load reads KEY=VALUE pairs from envFile and overlays the process
// environment on top, so a variable already set in the environment always
// wins over the file. A missing file is not an error. The process environment
// is never modified.
func Load(envFile string) (*Config, error) {
	return loadFrom(envFile, os.Environ())
}

func loadFrom(envFile string, environ []string) (*Config, error) {
	vars := make(map[string]string)
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read env file: %w", err)
		}
		maps.Copy(vars, fileVars)
	}
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	cfg := &Config{EnvFile: envFile}
	if err := env.Parse(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings needed to call the inference API.
func (c *Config) Validate() error {
	if c.Groq.APIKey == "" {
		return errors.New("GROQ_API_KEY is not set (export it or add it to " + c.envFileName() + ")")
	}
	if c.Groq.BaseURL == "" {
		return errors.New("GROQ_API_URL is empty")
	}
	return nil
}

func (c *Config) envFileName() string {
	if c.EnvFile == "" {
		return DefaultEnvFile
	}
	return c.EnvFile
}
