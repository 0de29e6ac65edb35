package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	SessionSecret string
	CookieSecure  bool

	LLMProvider     string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	LLMModel        string
	LLMMaxTokens    int

	ContextDir      string
	NexusGraphQLURL string
	LogMode         string
}

// LLMAPIKey returns the credential for the configured provider, empty when unset.
func (c Config) LLMAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.AnthropicAPIKey
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		CookieSecure:         getenv("COOKIE_SECURE", "false") == "true",

		LLMProvider:     strings.ToLower(getenv("LLM_PROVIDER", "anthropic")),
		AnthropicAPIKey: getenv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getenv("OPENAI_API_KEY", ""),
		LLMModel:        getenv("LLM_MODEL", ""),
		LLMMaxTokens:    getenvInt("LLM_MAX_TOKENS", 2048),

		ContextDir:      getenv("CONTEXT_DIR", "context"),
		NexusGraphQLURL: getenv("NEXUS_GRAPHQL_URL", "https://api.nexusmods.com/v2/graphql"),
		LogMode:         getenv("LOG_MODE", "dev"),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.SessionSecret = mustGetenv("SESSION_SECRET")
	if len(cfg.SessionSecret) < 32 {
		panic("SESSION_SECRET must be at least 32 characters")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
