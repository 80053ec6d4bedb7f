package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string

	LLMProvider    string
	LLMModel       string
	GCPProject     string
	VertexAIRegion string

	AnalysisTimeoutSeconds int
	ProgressIntervalMS     int

	ShareMaxTokenChars int
	PublicBaseURL      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             normalizeEnv(getEnv("ENV", "dev")),

		LLMProvider:    normalizeProvider(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:       getEnv("LLM_MODEL", "gemini-3-pro-preview"),
		GCPProject:     getEnv("GCP_PROJECT", ""),
		VertexAIRegion: getEnv("VERTEX_AI_REGION", "us-central1"),

		AnalysisTimeoutSeconds: getEnvInt("ANALYSIS_TIMEOUT_SECONDS", 120),
		ProgressIntervalMS:     getEnvInt("PROGRESS_INTERVAL_MS", 800),

		ShareMaxTokenChars: getEnvInt("SHARE_MAX_TOKEN_CHARS", 8000),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:5173"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini":
		return "gemini"
	default:
		return "none"
	}
}
