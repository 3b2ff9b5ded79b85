package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads at startup. The core
// never re-reads configuration mid-conversation.
type Config struct {
	Server  ServerConfig
	Channel ChannelConfig
	Events  EventsConfig
	Weather WeatherConfig
	Session SessionConfig
	Intent  IntentConfig
}

// Load reads the full configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	timeout, err := loadGatewayTimeout()
	if err != nil {
		return nil, err
	}

	intent, err := loadIntentConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Channel: ChannelConfig{
			AppID:     strings.TrimSpace(os.Getenv("CHANNEL_APP_ID")),
			AppSecret: strings.TrimSpace(os.Getenv("CHANNEL_APP_SECRET")),
		},
		Events: EventsConfig{
			BaseURL:      getEnvOrDefault("EVENTS_BASE_URL", "https://www.eventbriteapi.com/v3"),
			ClientID:     strings.TrimSpace(os.Getenv("EVENTS_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("EVENTS_CLIENT_SECRET")),
			StaticToken:  strings.TrimSpace(os.Getenv("EVENTS_STATIC_TOKEN")),
			Timeout:      timeout,
		},
		Weather: WeatherConfig{
			BaseURL: getEnvOrDefault("WEATHER_BASE_URL", "https://api.darksky.net"),
			APIKey:  strings.TrimSpace(os.Getenv("WEATHER_API_KEY")),
			Timeout: timeout,
		},
		Session: SessionConfig{
			DBPath: strings.TrimSpace(os.Getenv("SESSION_DB_PATH")),
		},
		Intent: intent,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3978"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":3978" or "127.0.0.1:3978" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// ChannelConfig carries the messaging-channel connector credentials. When
// AppSecret is set, inbound REST turns must present it as a bearer credential.
type ChannelConfig struct {
	AppID     string
	AppSecret string
}

// EventsConfig describes the third-party events API.
type EventsConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// StaticToken is a development bearer token used in place of the OAuth
	// code exchange when set.
	StaticToken string
	Timeout     time.Duration
}

// WeatherConfig describes the third-party forecast API.
type WeatherConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Enabled reports whether forecast lookups can be made.
func (c WeatherConfig) Enabled() bool {
	return c.APIKey != ""
}

// SessionConfig selects the session store backend. An empty DBPath keeps
// sessions in memory.
type SessionConfig struct {
	DBPath string
}

// IntentConfig describes the optional LLM intent classifier.
type IntentConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
	LLMOn     bool
}

// Enabled reports whether the classifier is requested and its model
// credentials are present.
func (c IntentConfig) Enabled() bool {
	return c.LLMOn && c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds the classifier's chat model from this configuration.
func (c IntentConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("intent classifier credentials missing: provide ARK_API_KEY + Model or AK/SK")
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:   c.BaseURL,
		Region:    c.Region,
		APIKey:    c.APIKey,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Model:     c.Model,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadIntentConfig() (IntentConfig, error) {
	llmOn, err := parseBoolEnv("INTENT_LLM_ENABLED", false)
	if err != nil {
		return IntentConfig{}, err
	}

	return IntentConfig{
		APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:     strings.TrimSpace(os.Getenv("Model")),
		BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		LLMOn:     llmOn,
	}, nil
}

// loadGatewayTimeout reads the explicit timeout for outbound gateway calls,
// in seconds. Relying on implicit HTTP client defaults is not an option.
func loadGatewayTimeout() (time.Duration, error) {
	raw, err := parseOptionalIntEnv("GATEWAY_TIMEOUT")
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 15 * time.Second, nil
	}
	if *raw < 1 {
		return 0, fmt.Errorf("GATEWAY_TIMEOUT must be at least 1 second, got %d", *raw)
	}
	return time.Duration(*raw) * time.Second, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
