package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every configuration section of the service.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Local   LocalModelConfig
	Audio   AudioConfig
	Reports ReportConfig
}

// Load reads the full configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	local, err := loadLocalModelConfig()
	if err != nil {
		return nil, err
	}

	audio := loadAudioConfig()
	reports := loadReportConfig()

	return &Config{Server: server, AI: ai, Local: local, Audio: audio, Reports: reports}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Accept ":8000" or "127.0.0.1:8000" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the cloud response backends and orchestration defaults.
// Primary is an Ark/OpenAI-compatible model driven through the eino chain;
// Secondary is a plain chat-completions endpoint used as the second tier.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int

	SecondaryAPIKey  string
	SecondaryBaseURL string
	SecondaryModel   string

	DefaultPersonality string
	HistoryLimit       int
}

// PrimaryEnabled reports whether the primary cloud backend has credentials.
func (c AIConfig) PrimaryEnabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// SecondaryEnabled reports whether the fallback chat-completions backend has credentials.
func (c AIConfig) SecondaryEnabled() bool {
	return c.SecondaryAPIKey != ""
}

// NewChatModel builds the primary chat model from configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.PrimaryEnabled() {
		return nil, fmt.Errorf("primary model credentials missing: set ARK_API_KEY + ARK_MODEL or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	historyLimit := 10
	if override, err := parseOptionalIntEnv("THERAPY_HISTORY_LIMIT"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override >= 1 {
		historyLimit = *override
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,

		SecondaryAPIKey:  strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")),
		SecondaryBaseURL: getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		SecondaryModel:   getEnvOrDefault("DEEPSEEK_MODEL", "deepseek-chat"),

		DefaultPersonality: getEnvOrDefault("THERAPY_DEFAULT_PERSONALITY", "warm"),
		HistoryLimit:       historyLimit,
	}, nil
}

// LocalModelConfig describes the local inference runtime used as the third tier.
type LocalModelConfig struct {
	BaseURL      string
	Model        string
	MaxNewTokens int
	Timeout      int
}

// Enabled reports whether a local runtime endpoint was configured.
func (c LocalModelConfig) Enabled() bool {
	return c.BaseURL != ""
}

func loadLocalModelConfig() (LocalModelConfig, error) {
	maxNewTokens := 1024
	if override, err := parseOptionalIntEnv("LOCAL_LLM_MAX_NEW_TOKENS"); err != nil {
		return LocalModelConfig{}, err
	} else if override != nil && *override >= 1 {
		maxNewTokens = *override
	}

	timeout := 60
	if override, err := parseOptionalIntEnv("LOCAL_LLM_TIMEOUT"); err != nil {
		return LocalModelConfig{}, err
	} else if override != nil && *override >= 1 {
		timeout = *override
	}

	return LocalModelConfig{
		BaseURL:      strings.TrimSpace(os.Getenv("LOCAL_LLM_BASE_URL")),
		Model:        getEnvOrDefault("LOCAL_LLM_MODEL", ""),
		MaxNewTokens: maxNewTokens,
		Timeout:      timeout,
	}, nil
}

// AudioConfig describes the transcription/synthesis backend.
type AudioConfig struct {
	APIKey    string
	BaseURL   string
	ASRModel  string
	TTSModel  string
	TTSVoice  string
	UploadDir string
}

// Enabled reports whether remote audio processing is available.
func (c AudioConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadAudioConfig() AudioConfig {
	return AudioConfig{
		APIKey:    strings.TrimSpace(os.Getenv("AUDIO_API_KEY")),
		BaseURL:   getEnvOrDefault("AUDIO_BASE_URL", "https://api.openai.com/v1"),
		ASRModel:  getEnvOrDefault("AUDIO_ASR_MODEL", "whisper-1"),
		TTSModel:  getEnvOrDefault("AUDIO_TTS_MODEL", "tts-1"),
		TTSVoice:  getEnvOrDefault("AUDIO_TTS_VOICE", "alloy"),
		UploadDir: getEnvOrDefault("AUDIO_UPLOAD_DIR", "uploads/audio"),
	}
}

// ReportConfig describes where generated PDF reports are written.
type ReportConfig struct {
	Dir string
}

func loadReportConfig() ReportConfig {
	return ReportConfig{
		Dir: getEnvOrDefault("REPORTS_DIR", "reports"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
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
