// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// PollBudget bounds one polling run.
type PollBudget struct {
	Interval    time.Duration
	MaxAttempts int
}

type Config struct {
	Port string

	// Transcription provider
	TranscribeHost   string
	TranscribeAPIKey string
	MockTranscribe   bool

	// Summarization provider
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	MockLLM    bool

	// Poll budgets. Short covers typical meeting clips; Long is the
	// extended budget for full-length recordings. Same algorithm, bigger
	// allowance.
	ShortPoll PollBudget
	LongPoll  PollBudget

	// SummaryFailHard aborts the pipeline when the summarization call
	// fails instead of degrading to an empty structured result.
	SummaryFailHard bool

	// RedisAddr selects the Redis session store when set; empty keeps the
	// in-memory store.
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	AllowedOrigin string
}

func Load() *Config {
	return &Config{
		Port: envOrDefault("PORT", "8080"),

		TranscribeHost:   envOrDefault("TRANSCRIBE_URL", "https://api.assemblyai.com"),
		TranscribeAPIKey: os.Getenv("TRANSCRIBE_API_KEY"),
		MockTranscribe:   envBool("USE_MOCK_TRANSCRIBE", false),

		LLMBaseURL: os.Getenv("LLM_BASE_URL"),
		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   envOrDefault("LLM_MODEL", "gpt-4o-mini"),
		MockLLM:    envBool("USE_MOCK_LLM", false),

		ShortPoll: PollBudget{
			Interval:    envDuration("POLL_INTERVAL_MS", 1500*time.Millisecond),
			MaxAttempts: envInt("POLL_MAX_ATTEMPTS", 40),
		},
		LongPoll: PollBudget{
			Interval:    envDuration("LONG_POLL_INTERVAL_MS", 2000*time.Millisecond),
			MaxAttempts: envInt("LONG_POLL_MAX_ATTEMPTS", 150),
		},

		SummaryFailHard: envBool("SUMMARY_FAIL_HARD", false),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SessionTTL:    envDuration("SESSION_TTL_MS", 0),

		AllowedOrigin: envOrDefault("ALLOWED_ORIGIN", "*"),
	}
}

// Budget picks the poll budget for a recording.
func (c *Config) Budget(longRecording bool) PollBudget {
	if longRecording {
		return c.LongPoll
	}
	return c.ShortPoll
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// envDuration reads a millisecond count.
func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return def
}
