package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"       validate:"required"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Assistant AssistantConfig `mapstructure:"assistant" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                  int      `mapstructure:"port"                    validate:"required,gt=0,lt=65536"`
	LogLevel              string   `mapstructure:"log_level"               validate:"required,oneof=debug info warn error"`
	CORSOrigins           []string `mapstructure:"cors_origins"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gte=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"           validate:"required,min=32"`
	TokenLifetimeHours int    `mapstructure:"token_lifetime_hours" validate:"required,gt=0"`
	BCryptCost         int    `mapstructure:"bcrypt_cost"          validate:"gte=4,lte=31"`
	// GoogleClientID is the audience expected in federated ID tokens.
	// Federated login is disabled when it is empty.
	GoogleClientID string `mapstructure:"google_client_id"`
}

// LLMConfig selects and configures the completion provider used by the assistant.
type LLMConfig struct {
	Provider       string  `mapstructure:"provider"        validate:"required,oneof=openai gemini ollama"`
	OpenAIAPIKey   string  `mapstructure:"openai_api_key"  validate:"required_if=Provider openai"`
	OpenAIBaseURL  string  `mapstructure:"openai_base_url" validate:"omitempty,url"`
	GeminiAPIKey   string  `mapstructure:"gemini_api_key"  validate:"required_if=Provider gemini"`
	OllamaURL      string  `mapstructure:"ollama_url"      validate:"required_if=Provider ollama,omitempty,url"`
	Model          string  `mapstructure:"model"           validate:"required"`
	Temperature    float32 `mapstructure:"temperature"     validate:"gte=0,lte=2"`
	MaxTokens      int     `mapstructure:"max_tokens"      validate:"gt=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// TelegramConfig contains the bot channel settings. The webhook endpoint
// only sends replies when BotToken is set.
type TelegramConfig struct {
	BotToken      string `mapstructure:"bot_token"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	Workers       int    `mapstructure:"workers"        validate:"gte=1"`
	QueueSize     int    `mapstructure:"queue_size"     validate:"gte=1"`
}

// AssistantConfig controls conversational session storage.
type AssistantConfig struct {
	SessionStore      string `mapstructure:"session_store"       validate:"required,oneof=memory postgres"`
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes" validate:"gt=0"`
	HistoryLimit      int    `mapstructure:"history_limit"       validate:"gt=0,lte=200"`
}
