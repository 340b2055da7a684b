// ABOUTME: Centralized configuration for answerbot
// ABOUTME: Defaults, then an optional YAML file, then environment variables, then validation
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/harper/answerbot/internal/models"
	"github.com/harper/answerbot/internal/retrieval"
)

// DefaultFile is read when ANSWERBOT_CONFIG is unset and the file exists
const DefaultFile = "answerbot.yaml"

// DefaultEmbeddingsPath is where the pre-embedded contract lives
const DefaultEmbeddingsPath = "charm://answerbot/cba_2015_base.csv"

// Config holds all configuration for answerbot
type Config struct {
	// OpenAI settings
	OpenAIKey     string        `yaml:"-"`
	OpenAIBaseURL string        `yaml:"openai_base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`

	// Retrieval settings
	EmbeddingsPath  string `yaml:"embeddings_path"`
	EmbeddingsModel string `yaml:"embeddings_model"`
	GPTModel        string `yaml:"gpt_model"`
	TopN            int    `yaml:"top_n"`
	TokenBudget     int    `yaml:"token_budget"`
	DocumentName    string `yaml:"document_name"`
	SystemPrompt    string `yaml:"system_prompt"`

	// Logging settings
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Charm settings
	CharmHost string `yaml:"charm_host"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryDelay:      2 * time.Second,
		EmbeddingsPath:  DefaultEmbeddingsPath,
		EmbeddingsModel: retrieval.DefaultEmbeddingModel,
		GPTModel:        models.DefaultChatModel.APIName(),
		TopN:            retrieval.DefaultTopN,
		TokenBudget:     retrieval.DefaultTokenBudget,
		DocumentName:    retrieval.DefaultDocumentName,
		SystemPrompt:    "You answer questions about the fedex pilot contract.",
		LogLevel:        "info",
		CharmHost:       "cloud.charm.sh",
	}
}

// Load reads configuration from the optional YAML file and environment variables
func Load() (*Config, error) {
	cfg := Defaults()

	path := os.Getenv("ANSWERBOT_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// loadFile overlays values from a YAML file onto cfg
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.OpenAIKey = getEnv("OPENAI_API_KEY", c.OpenAIKey)
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.Timeout = getEnvDuration("OPENAI_TIMEOUT", c.Timeout)
	c.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", c.RetryDelay)
	c.EmbeddingsPath = getEnv("ANSWERBOT_EMBEDDINGS_PATH", c.EmbeddingsPath)
	c.EmbeddingsModel = getEnv("ANSWERBOT_EMBEDDINGS_MODEL", c.EmbeddingsModel)
	c.GPTModel = getEnv("ANSWERBOT_GPT_MODEL", c.GPTModel)
	c.TopN = getEnvInt("ANSWERBOT_TOP_N", c.TopN)
	c.TokenBudget = getEnvInt("ANSWERBOT_TOKEN_BUDGET", c.TokenBudget)
	c.DocumentName = getEnv("ANSWERBOT_DOCUMENT_NAME", c.DocumentName)
	c.SystemPrompt = getEnv("ANSWERBOT_SYSTEM_PROMPT", c.SystemPrompt)
	c.LogLevel = getEnv("ANSWERBOT_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("ANSWERBOT_LOG_FILE", c.LogFile)
	c.CharmHost = getEnv("CHARM_HOST", c.CharmHost)
}

// Validate checks ranges and names that would otherwise fail deep inside a request
func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("ANSWERBOT_TOP_N must be positive, got %d", c.TopN)
	}
	if c.TokenBudget < 0 {
		return fmt.Errorf("ANSWERBOT_TOKEN_BUDGET must not be negative, got %d", c.TokenBudget)
	}
	if strings.TrimSpace(c.EmbeddingsPath) == "" {
		return errors.New("ANSWERBOT_EMBEDDINGS_PATH is required")
	}
	if strings.TrimSpace(c.EmbeddingsModel) == "" {
		return errors.New("ANSWERBOT_EMBEDDINGS_MODEL is required")
	}
	if _, err := c.ChatModel(); err != nil {
		return fmt.Errorf("ANSWERBOT_GPT_MODEL: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("ANSWERBOT_LOG_LEVEL: %w", err)
	}
	return nil
}

// ChatModel resolves the configured completion model
func (c *Config) ChatModel() (models.ChatModel, error) {
	return models.ParseChatModel(c.GPTModel)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
