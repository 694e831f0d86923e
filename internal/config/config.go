package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Slack    SlackConfig    `yaml:"slack"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Summary  SummaryConfig  `yaml:"summary"`
	LogLevel string         `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Enabled reports whether a database target is configured at all.
// Without one the pipeline runs with the existence check and the
// store write disabled.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

type OpenAIConfig struct {
	APIKey   string        `yaml:"api_key"`
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

type FeedsConfig struct {
	SourcesFile string        `yaml:"sources_file"`
	Timeout     time.Duration `yaml:"timeout"`
	Retry       RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type PipelineConfig struct {
	WatermarkPath string        `yaml:"watermark_path"`
	Lookback      time.Duration `yaml:"lookback"`
	Timezone      string        `yaml:"timezone"`
	RunTimeout    time.Duration `yaml:"run_timeout"`
}

type SummaryConfig struct {
	MaxChars     int `yaml:"max_chars"`
	MinChars     int `yaml:"min_chars"`
	MaxSentences int `yaml:"max_sentences"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// LoadSources reads the feed URL list, a JSON array of strings.
// A missing or malformed file is a fatal configuration error.
func LoadSources(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("sources file %s contains no feed urls", path)
	}

	return urls, nil
}

func (c *Config) setDefaults() {
	if c.Slack.Channel == "" {
		c.Slack.Channel = "#ai-速報"
	}
	if c.OpenAI.Endpoint == "" {
		c.OpenAI.Endpoint = "https://api.openai.com/v1/chat/completions"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 30 * time.Second
	}
	if c.Feeds.SourcesFile == "" {
		c.Feeds.SourcesFile = "rss_sources.json"
	}
	if c.Feeds.Timeout == 0 {
		c.Feeds.Timeout = 20 * time.Second
	}
	if c.Feeds.Retry.MaxAttempts == 0 {
		c.Feeds.Retry.MaxAttempts = 3
	}
	if c.Feeds.Retry.InitialBackoff == 0 {
		c.Feeds.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Feeds.Retry.MaxBackoff == 0 {
		c.Feeds.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Pipeline.WatermarkPath == "" {
		c.Pipeline.WatermarkPath = "last_processed.json"
	}
	if c.Pipeline.Lookback == 0 {
		c.Pipeline.Lookback = 24 * time.Hour
	}
	if c.Pipeline.Timezone == "" {
		c.Pipeline.Timezone = "Asia/Tokyo"
	}
	if c.Pipeline.RunTimeout == 0 {
		c.Pipeline.RunTimeout = 10 * time.Minute
	}
	if c.Summary.MaxChars == 0 {
		c.Summary.MaxChars = 400
	}
	if c.Summary.MinChars == 0 {
		c.Summary.MinChars = 300
	}
	if c.Summary.MaxSentences == 0 {
		c.Summary.MaxSentences = 4
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
