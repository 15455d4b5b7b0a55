package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"

	DefaultGroqBaseURL  = "https://api.groq.com/openai/v1/"
	DefaultGroqModel    = "llama-3.3-70b-versatile"
	DefaultGeminiModel  = "gemini-1.5-flash"
	DefaultFormRelayURL = "https://formspree.io/f/xwpeboya"
)

type Config struct {
	// Server
	Addr       string
	LogLevel   string
	LogJSON    bool
	CORSOrigin string

	// Completion service
	CompletionAPIKey   string
	CompletionProvider string
	CompletionModel    string
	CompletionBaseURL  string

	// Content
	ProfilePath        string
	PromptTemplatePath string

	// Contact form relay
	FormRelayURL string

	// Requests per minute per client IP, 0 disables the limiter.
	ContactRateLimit int
	ChatRateLimit    int
}

// Load reads an optional .env file, then parses args with defaults taken
// from the environment. It is called once at startup.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	fs := flag.NewFlagSet("portfolio-relay", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", getEnvOrDefault("ADDR", "8080"), "HTTP listen port")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnvOrDefault("LOG_LEVEL", "info"), "log level: debug|info|warn|error")
	fs.BoolVar(&cfg.LogJSON, "log-json", getEnvAsBoolOrDefault("LOG_JSON", false), "log as JSON")
	fs.StringVar(&cfg.CORSOrigin, "cors-origin", getEnvOrDefault("CORS_ORIGIN", ""), "allowed CORS origin, empty disables CORS headers")
	fs.StringVar(&cfg.CompletionProvider, "provider", getEnvOrDefault("COMPLETION_PROVIDER", ProviderGroq), "completion provider: groq|gemini")
	fs.StringVar(&cfg.CompletionModel, "model", getEnvOrDefault("COMPLETION_MODEL", ""), "completion model name")
	fs.StringVar(&cfg.CompletionBaseURL, "completion-url", getEnvOrDefault("COMPLETION_BASE_URL", DefaultGroqBaseURL), "OpenAI-compatible base URL")
	fs.StringVar(&cfg.ProfilePath, "profile", getEnvOrDefault("PROFILE_PATH", ""), "profile YAML path, empty uses the built-in profile")
	fs.StringVar(&cfg.PromptTemplatePath, "prompt-template", getEnvOrDefault("PROMPT_TEMPLATE_PATH", ""), "system prompt template path, empty uses the built-in template")
	fs.StringVar(&cfg.FormRelayURL, "form-relay", getEnvOrDefault("FORM_RELAY_URL", DefaultFormRelayURL), "contact form relay endpoint")
	fs.IntVar(&cfg.ContactRateLimit, "contact-rate", getEnvAsIntOrDefault("CONTACT_RATE_LIMIT", 5), "contact submissions per minute per IP")
	fs.IntVar(&cfg.ChatRateLimit, "chat-rate", getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 0), "chat requests per minute per IP")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// The credential is never taken from flags so it does not show up in ps.
	cfg.CompletionAPIKey = getEnvOrDefault("COMPLETION_API_KEY", os.Getenv("GROQ_API_KEY"))

	cfg.CompletionProvider = strings.ToLower(strings.TrimSpace(cfg.CompletionProvider))
	switch cfg.CompletionProvider {
	case ProviderGroq:
		if cfg.CompletionModel == "" {
			cfg.CompletionModel = DefaultGroqModel
		}
	case ProviderGemini:
		if cfg.CompletionModel == "" {
			cfg.CompletionModel = DefaultGeminiModel
		}
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.CompletionProvider)
	}

	if cfg.ContactRateLimit < 0 || cfg.ChatRateLimit < 0 {
		return nil, fmt.Errorf("rate limits must not be negative")
	}

	return cfg, nil
}

// HasCredential reports whether a completion API key was configured.
func (c *Config) HasCredential() bool {
	return strings.TrimSpace(c.CompletionAPIKey) != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
