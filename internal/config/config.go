package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"
	USER_ID_KEY    = "userId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	// EmbeddingDimension matches text-embedding-ada-002; the qdrant collection is
	// created with this size and every embedder must return vectors of this length.
	EmbeddingDimension int = 1536
	VectorCollection       = "docs"

	// upload limits
	MaxUploadBytes int64 = 10 << 20 // 10MB

	RetrievalLimit = 5

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 0 * time.Second // unset: chat responses stream for longer than a fixed write window
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//vectorDB
	QdrantHost             = ""
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1
	QdrantScrollBatchSize  = 100
	QdrantKeepAliveTimeout = 30 * time.Second

	//llm
	OpenAIChatModel      = "gpt-4o"
	OpenAIEmbeddingModel = "text-embedding-ada-002"
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"

	ModelTemperature float64 = 0.2
	// MaxToolRounds bounds the generate -> tool -> generate loop per request.
	MaxToolRounds = 4

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	// bounded fan-out for per-chunk embedding during ingestion
	EmbedConcurrency = 4

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisEmbeddingCacheDB  = 0
	RedisEmbeddingCacheTTL = 24 * time.Hour
)

// Env backed settings. Secrets never live in the constants block.

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

// LLMProvider selects the generation/embedding backend: "openai" (default) or "gemini".
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

func DatabaseDSN() string {
	return os.Getenv("DATABASE_DSN")
}

func AuthToken() string {
	return os.Getenv("API_AUTH_TOKEN")
}

// NoAuthBypass disables bearer auth for local runs.
func NoAuthBypass() bool {
	return os.Getenv("NO_AUTH_BYPASS") == "1"
}
