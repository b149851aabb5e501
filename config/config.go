package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Relay pipeline
	Webhook      WebhookConfig
	Dispatcher   DispatcherConfig
	Subscription SubscriptionConfig
	Redis        RedisConfig

	// Chat transports
	Telegram TelegramConfig
	Slack    SlackConfig
	Delivery DeliveryConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type WebhookConfig struct {
	Secret          string
	ProbeEnabled    bool
	MaxBodyBytes    int64
	AllowedIPs      []string
	RateLimitPerMin int
	DedupWindow     time.Duration
}

type DispatcherConfig struct {
	Workers    int
	QueueSize  int
	Fanout     int
	JobTimeout time.Duration
}

// Subscription backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type SubscriptionConfig struct {
	Backend      string
	PostgresDSN  string
	StoreTimeout time.Duration
	Static       []StaticSubscription
}

// StaticSubscription is a subscription declared in the config file. Empty
// color fields take the table defaults.
type StaticSubscription struct {
	Channel     string
	Repository  string
	Enabled     bool
	URLColor    string
	TagColor    string
	RepoColor   string
	NameColor   string
	HashColor   string
	BranchColor string
}

// RedisConfig enables the subscription lookup cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type TelegramConfig struct {
	BotToken string
}

type SlackConfig struct {
	BotToken string
}

type DeliveryConfig struct {
	DefaultTransport string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Webhook
	cfg.Webhook.Secret = expandEnvVar(viper.GetString("webhook.secret"))
	if webhookSecret := viper.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.ProbeEnabled = viper.GetBool("webhook.probe_enabled")
	cfg.Webhook.MaxBodyBytes = viper.GetInt64("webhook.max_body_bytes")
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.DedupWindow = viper.GetDuration("webhook.dedup_window")
	cfg.Webhook.AllowedIPs = splitList(viper.Get("webhook.allowed_ips"))

	// Dispatcher
	cfg.Dispatcher.Workers = viper.GetInt("dispatcher.workers")
	cfg.Dispatcher.QueueSize = viper.GetInt("dispatcher.queue_size")
	cfg.Dispatcher.Fanout = viper.GetInt("dispatcher.fanout")
	cfg.Dispatcher.JobTimeout = viper.GetDuration("dispatcher.job_timeout")

	// Subscriptions
	cfg.Subscription.Backend = strings.ToLower(viper.GetString("subscription.backend"))
	cfg.Subscription.PostgresDSN = expandEnvVar(viper.GetString("subscription.postgres_dsn"))
	if dsn := viper.GetString("postgres_dsn"); dsn != "" {
		cfg.Subscription.PostgresDSN = dsn
	}
	cfg.Subscription.StoreTimeout = viper.GetDuration("subscription.store_timeout")
	if viper.IsSet("subscription.static") {
		if list, ok := viper.Get("subscription.static").([]interface{}); ok {
			for _, item := range list {
				if m, ok := item.(map[string]interface{}); ok {
					cfg.Subscription.Static = append(cfg.Subscription.Static, staticFromMap(m))
				}
			}
		}
	}

	// Redis
	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = expandEnvVar(viper.GetString("redis.password"))
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.TTL = viper.GetDuration("redis.ttl")

	// Transports
	cfg.Telegram.BotToken = expandEnvVar(viper.GetString("telegram.bot_token"))
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}
	cfg.Slack.BotToken = expandEnvVar(viper.GetString("slack.bot_token"))
	if slackToken := viper.GetString("slack_bot_token"); slackToken != "" {
		cfg.Slack.BotToken = slackToken
	}
	cfg.Delivery.DefaultTransport = strings.ToLower(viper.GetString("delivery.default_transport"))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("webhook.probe_enabled", true)
	viper.SetDefault("webhook.max_body_bytes", 25<<20)
	viper.SetDefault("webhook.rate_limit_per_min", 0)
	viper.SetDefault("webhook.dedup_window", "10m")

	viper.SetDefault("dispatcher.workers", 4)
	viper.SetDefault("dispatcher.queue_size", 256)
	viper.SetDefault("dispatcher.fanout", 8)
	viper.SetDefault("dispatcher.job_timeout", "2m")

	viper.SetDefault("subscription.backend", BackendMemory)
	viper.SetDefault("subscription.store_timeout", "5s")

	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "1m")

	viper.SetDefault("delivery.default_transport", "log")
}

// validate checks cross-field constraints viper cannot express.
func validate(cfg *Config) error {
	switch cfg.Subscription.Backend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.Subscription.PostgresDSN == "" {
			return fmt.Errorf("subscription.backend is postgres but subscription.postgres_dsn is empty")
		}
	default:
		return fmt.Errorf("unknown subscription.backend %q", cfg.Subscription.Backend)
	}

	for i, s := range cfg.Subscription.Static {
		if s.Channel == "" {
			return fmt.Errorf("subscription.static[%d]: channel is required", i)
		}
		if s.Repository == "" {
			return fmt.Errorf("subscription.static[%d]: repository is required", i)
		}
	}

	if cfg.HTTPServer.Port <= 0 {
		return fmt.Errorf("http_server.port must be positive")
	}
	return nil
}

// staticFromMap reads one subscription.static entry. Enabled defaults to
// true when the key is absent.
func staticFromMap(m map[string]interface{}) StaticSubscription {
	s := StaticSubscription{
		Channel:     getStringFromMap(m, "channel"),
		Repository:  getStringFromMap(m, "repository"),
		Enabled:     true,
		URLColor:    getColorFromMap(m, "url_color"),
		TagColor:    getColorFromMap(m, "tag_color"),
		RepoColor:   getColorFromMap(m, "repo_color"),
		NameColor:   getColorFromMap(m, "name_color"),
		HashColor:   getColorFromMap(m, "hash_color"),
		BranchColor: getColorFromMap(m, "branch_color"),
	}
	if _, ok := m["enabled"]; ok {
		s.Enabled = getBoolFromMap(m, "enabled")
	}
	return s
}

// splitList accepts either a YAML list or a comma separated string, since
// viper does not parse arrays from env.
func splitList(raw interface{}) []string {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []interface{}:
		for _, p := range v {
			parts = append(parts, fmt.Sprint(p))
		}
	case []string:
		parts = v
	}

	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	// Check if value is in format ${VAR_NAME}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return expandEnvVar(str)
		}
		if val != nil {
			return fmt.Sprint(val)
		}
	}
	return ""
}

// getColorFromMap keeps two-digit color codes written as bare YAML numbers.
func getColorFromMap(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case int:
		return fmt.Sprintf("%02d", v)
	case float64:
		return fmt.Sprintf("%02d", int(v))
	}
	return getStringFromMap(m, key)
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}
