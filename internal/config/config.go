package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ServiceName = "automaton-triage"
	Version     = "1.0.0"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	AI struct {
		APIKey         string `yaml:"apiKey"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"ai"`

	Jira struct {
		BaseURL        string `yaml:"baseUrl"`
		Email          string `yaml:"email"`
		APIToken       string `yaml:"apiToken"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"jira"`

	GitHub struct {
		Token          string `yaml:"token"`
		Owner          string `yaml:"owner"`
		Repo           string `yaml:"repo"`
		Branch         string `yaml:"branch"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"github"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Sentry struct {
		DSN         string `yaml:"dsn"`
		Environment string `yaml:"environment"`
	} `yaml:"sentry"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Auth struct {
		// client name -> API key
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity     int     `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refillPerSec"`
	} `yaml:"rateLimit"`
}

// Load baca file config.yaml. ${VAR} references are expanded from the
// environment before parsing so secrets can stay out of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4.1"
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 60
	}
	if c.Jira.TimeoutSeconds == 0 {
		c.Jira.TimeoutSeconds = 30
	}
	if c.GitHub.TimeoutSeconds == 0 {
		c.GitHub.TimeoutSeconds = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate reports every missing required value at once so a broken
// deploy gets fixed in one restart instead of one restart per field.
func (c *Config) Validate() error {
	var missing []string
	if c.Jira.BaseURL == "" {
		missing = append(missing, "jira.baseUrl")
	}
	if c.Jira.Email == "" {
		missing = append(missing, "jira.email")
	}
	if c.Jira.APIToken == "" {
		missing = append(missing, "jira.apiToken")
	}
	if c.AI.APIKey == "" {
		missing = append(missing, "ai.apiKey")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config values: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

func (c *Config) JiraTimeout() time.Duration {
	return time.Duration(c.Jira.TimeoutSeconds) * time.Second
}

func (c *Config) GitHubTimeout() time.Duration {
	return time.Duration(c.GitHub.TimeoutSeconds) * time.Second
}
