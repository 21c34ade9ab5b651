package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	StateBackend  string `yaml:"stateBackend"`
	StateDir      string `yaml:"stateDir"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	DatabaseURL   string `yaml:"databaseURL"`

	AIProvider      string `yaml:"aiProvider"`
	GeminiAPIKey    string `yaml:"geminiAPIKey"`
	GenerationModel string `yaml:"generationModel"`
	OllamaBaseURL   string `yaml:"ollamaBaseURL"`
	OpenAIBaseURL   string `yaml:"openAIBaseURL"`
	OpenAIAPIKey    string `yaml:"openAIAPIKey"`
	OpenAIModel     string `yaml:"openAIModel"`

	AdminPassword          string `yaml:"adminPassword"`
	AdminPasswordHash      string `yaml:"adminPasswordHash"`
	AdminJWTSecret         string `yaml:"adminJwtSecret"`
	AdminSessionTTLMinutes int    `yaml:"adminSessionTTLMinutes"`

	PaymentMode string `yaml:"paymentMode"`
	PaymentURL  string `yaml:"paymentURL"`
	IPNSecret   string `yaml:"ipnSecret"`

	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`

	AMQPURL   string `yaml:"amqpURL"`
	AMQPQueue string `yaml:"amqpQueue"`

	ChatRateLimitPerMinute  int `yaml:"chatRateLimitPerMinute"`
	LoginRateLimitPerMinute int `yaml:"loginRateLimitPerMinute"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.AdminPasswordHash = v
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		cfg.AdminJWTSecret = v
	}
	if v := os.Getenv("PAYMENT_IPN_SECRET"); v != "" {
		cfg.IPNSecret = v
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		cfg.AMQPURL = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		cfg.MinioUseSSL, _ = strconv.ParseBool(v)
	}
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *FileConfig) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.StateBackend == "" {
		cfg.StateBackend = "file"
	}
	if cfg.StateDir == "" {
		cfg.StateDir = "data"
	}
	if cfg.AIProvider == "" {
		cfg.AIProvider = "gemini"
	}
	if cfg.GenerationModel == "" {
		cfg.GenerationModel = "gemini-2.5-flash"
	}
	if cfg.PaymentMode == "" {
		cfg.PaymentMode = "manual"
	}
	if cfg.AMQPQueue == "" {
		cfg.AMQPQueue = "digitora.purchases"
	}
	if cfg.AdminSessionTTLMinutes <= 0 {
		cfg.AdminSessionTTLMinutes = 720
	}
	if cfg.ChatRateLimitPerMinute <= 0 {
		cfg.ChatRateLimitPerMinute = 10
	}
	if cfg.LoginRateLimitPerMinute <= 0 {
		cfg.LoginRateLimitPerMinute = 5
	}
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or PORT)")
	}
	switch cfg.StateBackend {
	case "file":
		if cfg.StateDir == "" {
			return errors.New("config: stateDir is required for the file backend")
		}
	case "redis":
		if cfg.RedisAddr == "" {
			return errors.New("config: redisAddr is required for the redis backend (set in config.yaml or REDIS_ADDR)")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return errors.New("config: databaseURL is required for the postgres backend (set in config.yaml or DATABASE_URL)")
		}
	default:
		return fmt.Errorf("config: unknown stateBackend %q (want file, redis, or postgres)", cfg.StateBackend)
	}
	switch cfg.AIProvider {
	case "gemini", "ollama", "openai":
	default:
		return fmt.Errorf("config: unknown aiProvider %q (want gemini, ollama, or openai)", cfg.AIProvider)
	}
	switch cfg.PaymentMode {
	case "manual":
	case "webhook":
		if cfg.IPNSecret == "" {
			return errors.New("config: ipnSecret is required for webhook payment mode (set in config.yaml or PAYMENT_IPN_SECRET)")
		}
	default:
		return fmt.Errorf("config: unknown paymentMode %q (want manual or webhook)", cfg.PaymentMode)
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return errors.New("config: adminPassword or adminPasswordHash is required (set in config.yaml or ADMIN_PASSWORD)")
	}
	if cfg.AdminJWTSecret == "" {
		return errors.New("config: adminJwtSecret is required (set in config.yaml or ADMIN_JWT_SECRET)")
	}
	if cfg.RedisAddr == "" {
		return errors.New("config: redisAddr is required for rate limiting (set in config.yaml or REDIS_ADDR)")
	}
	if cfg.MinioEndpoint != "" && (cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" || cfg.MinioBucket == "") {
		return errors.New("config: minioAccessKey, minioSecretKey and minioBucket are required when minioEndpoint is set")
	}
	return nil
}
