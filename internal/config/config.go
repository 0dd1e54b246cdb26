package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. CAREERPATH_CLIENT_BASE_URL.
const EnvPrefix = "CAREERPATH"

// Store drivers.
const (
	StoreDriverFile   = "file"
	StoreDriverLibSQL = "libsql"
)

// AI providers understood by the reference backend.
const (
	ProviderCanned = "canned"
	ProviderArk    = "ark"
	ProviderOpenAI = "openai"
)

// Config aggregates every configuration section.
type Config struct {
	Client    ClientConfig    `mapstructure:"client"`
	Store     StoreConfig     `mapstructure:"store"`
	Interview InterviewConfig `mapstructure:"interview"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Log       LogConfig       `mapstructure:"log"`
}

// ClientConfig describes how the engine reaches the backend.
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig selects the durable local store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// InterviewConfig controls the interview flows.
type InterviewConfig struct {
	Offline         bool   `mapstructure:"offline"`
	MinQuestions    int    `mapstructure:"min_questions"`
	ExperienceLevel string `mapstructure:"experience_level"`
	TranscriptKey   string `mapstructure:"transcript_key"`
}

// SpeechConfig describes the optional speech gateway.
type SpeechConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	GatewayURL string        `mapstructure:"gateway_url"`
	Language   string        `mapstructure:"language"`
	Voice      string        `mapstructure:"voice"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ServerConfig describes the reference backend listener.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// AIConfig describes reply generation in the reference backend.
type AIConfig struct {
	Provider     string   `mapstructure:"provider"`
	APIKey       string   `mapstructure:"api_key"`
	AccessKey    string   `mapstructure:"access_key"`
	SecretKey    string   `mapstructure:"secret_key"`
	Model        string   `mapstructure:"model"`
	BaseURL      string   `mapstructure:"base_url"`
	Region       string   `mapstructure:"region"`
	Temperature  *float64 `mapstructure:"temperature"`
	MaxTokens    *int     `mapstructure:"max_tokens"`
	HistoryLimit int      `mapstructure:"history_limit"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads .env, an optional YAML file and the environment, in increasing priority.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file only means the process environment is used as is.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("careerpath")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Server.Addr = normalizeAddr(cfg.Server.Addr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("client.base_url", "http://localhost:5000/api")
	v.SetDefault("client.timeout", "30s")

	v.SetDefault("store.driver", StoreDriverFile)
	v.SetDefault("store.path", ".careerpath/state.json")

	v.SetDefault("interview.offline", true)
	v.SetDefault("interview.min_questions", 15)
	v.SetDefault("interview.experience_level", "Beginner")
	v.SetDefault("interview.transcript_key", "interview_chat")

	v.SetDefault("speech.enabled", false)
	v.SetDefault("speech.gateway_url", "")
	v.SetDefault("speech.language", "en-US")
	v.SetDefault("speech.voice", "")
	v.SetDefault("speech.timeout", "30s")

	v.SetDefault("server.addr", ":5000")

	v.SetDefault("ai.provider", ProviderCanned)
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.region", "cn-beijing")
	v.SetDefault("ai.history_limit", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Keys without a default are invisible to Unmarshal unless bound explicitly.
	for _, key := range []string{"ai.api_key", "ai.access_key", "ai.secret_key", "ai.model", "ai.temperature", "ai.max_tokens"} {
		_ = v.BindEnv(key)
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Client.BaseURL) == "" {
		return fmt.Errorf("client.base_url is required")
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("invalid client.timeout value %s", c.Client.Timeout)
	}

	switch c.Store.Driver {
	case StoreDriverFile, StoreDriverLibSQL:
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}

	if c.Interview.MinQuestions < 1 {
		return fmt.Errorf("invalid interview.min_questions value %d", c.Interview.MinQuestions)
	}
	if c.Interview.TranscriptKey == "" {
		return fmt.Errorf("interview.transcript_key is required")
	}

	if c.Speech.Enabled && c.Speech.GatewayURL == "" {
		return fmt.Errorf("speech.gateway_url is required when speech is enabled")
	}

	switch c.AI.Provider {
	case ProviderCanned, ProviderArk, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}
	if c.AI.HistoryLimit < 1 {
		c.AI.HistoryLimit = 1
	}
	return nil
}

// normalizeAddr accepts "5000", ":5000" or "127.0.0.1:5000".
func normalizeAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ":5000"
	}
	if strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}

// Enabled reports whether the configured provider has the credentials it needs.
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderArk:
		return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
	case ProviderOpenAI:
		return c.Model != "" && c.APIKey != ""
	default:
		return false
	}
}

// NewChatModel builds an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if c.Provider != ProviderArk || !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide api_key + model or access_key/secret_key")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = "https://ark.cn-beijing.volces.com/api/v3"
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     baseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	})
}
