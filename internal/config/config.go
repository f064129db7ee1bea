package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Google   GoogleConfig   `yaml:"google"`
	AI       AIConfig       `yaml:"ai"`
	Media    MediaConfig    `yaml:"media"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// GoogleConfig holds the Google sign-in settings. AllowedDomain, when set,
// restricts login to emails of that domain.
type GoogleConfig struct {
	OAuthClientID string `yaml:"oauth_client_id"`
	AllowedDomain string `yaml:"allowed_domain"`
}

// AIConfig selects the external AI providers. A provider is considered
// configured when its API key is non-empty; OpenAI is preferred over Google.
type AIConfig struct {
	OpenAIAPIKey       string  `yaml:"openai_api_key"`
	OpenAIBaseURL      string  `yaml:"openai_base_url"`
	OpenAIModel        string  `yaml:"openai_model"`
	OpenAIVisionModel  string  `yaml:"openai_vision_model"`
	GoogleAIAPIKey     string  `yaml:"google_ai_api_key"`
	GoogleAIModel      string  `yaml:"google_ai_model"`
	InputTokenRate     float64 `yaml:"input_token_rate"`  // cost per input token
	OutputTokenRate    float64 `yaml:"output_token_rate"` // cost per output token
	UsageRetentionDays int     `yaml:"usage_retention_days"`
}

// MediaConfig points at the uploaded-file area for generated PDFs.
type MediaConfig struct {
	Root string `yaml:"root"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8000",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "rodocheck.db",
		},
		JWT: JWTConfig{
			Secret:     "rodocheck-secret-key-change-in-production",
			ExpireHour: 24,
		},
		AI: AIConfig{
			OpenAIBaseURL:     "https://api.openai.com/v1",
			OpenAIModel:       "gpt-3.5-turbo",
			OpenAIVisionModel: "gpt-4-vision-preview",
			GoogleAIModel:     "gemini-pro",
		},
		Media: MediaConfig{
			Root: "media",
		},
	}
}

// applyDefaults fills zero values that must never stay empty, regardless of
// where the config came from.
func (c *Config) applyDefaults() {
	if c.AI.OpenAIBaseURL == "" {
		c.AI.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if c.AI.OpenAIModel == "" {
		c.AI.OpenAIModel = "gpt-3.5-turbo"
	}
	if c.AI.OpenAIVisionModel == "" {
		c.AI.OpenAIVisionModel = "gpt-4-vision-preview"
	}
	if c.AI.GoogleAIModel == "" {
		c.AI.GoogleAIModel = "gemini-pro"
	}
	if c.AI.InputTokenRate == 0 {
		c.AI.InputTokenRate = 0.001
	}
	if c.AI.OutputTokenRate == 0 {
		c.AI.OutputTokenRate = 0.002
	}
	if c.AI.UsageRetentionDays == 0 {
		c.AI.UsageRetentionDays = 90
	}
	if c.JWT.ExpireHour == 0 {
		c.JWT.ExpireHour = 24
	}
	if c.Media.Root == "" {
		c.Media.Root = "media"
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if clientID := os.Getenv("GOOGLE_OAUTH_CLIENT_ID"); clientID != "" {
		c.Google.OAuthClientID = clientID
	}
	if domain := os.Getenv("GOOGLE_ALLOWED_DOMAIN"); domain != "" {
		c.Google.AllowedDomain = domain
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c.AI.OpenAIAPIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		c.AI.OpenAIBaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		c.AI.OpenAIModel = model
	}
	if model := os.Getenv("OPENAI_VISION_MODEL"); model != "" {
		c.AI.OpenAIVisionModel = model
	}
	if apiKey := os.Getenv("GOOGLE_AI_API_KEY"); apiKey != "" {
		c.AI.GoogleAIAPIKey = apiKey
	}
	if model := os.Getenv("GOOGLE_AI_MODEL"); model != "" {
		c.AI.GoogleAIModel = model
	}
	if days := os.Getenv("AI_USAGE_RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			c.AI.UsageRetentionDays = n
		}
	}
	if root := os.Getenv("MEDIA_ROOT"); root != "" {
		c.Media.Root = root
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
