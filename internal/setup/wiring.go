package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/answerlab/answer-agent/internal/config"
	"github.com/answerlab/answer-agent/internal/control"
	"github.com/answerlab/answer-agent/internal/database"
	"github.com/answerlab/answer-agent/internal/embeddings"
	"github.com/answerlab/answer-agent/internal/llm"
	"github.com/answerlab/answer-agent/internal/llm/bedrock"
	"github.com/answerlab/answer-agent/internal/llm/ollama"
	"github.com/answerlab/answer-agent/internal/llm/openai"
	red "github.com/answerlab/answer-agent/internal/redis"
	"github.com/answerlab/answer-agent/internal/retrieval"
	"github.com/answerlab/answer-agent/internal/strategy"
	"github.com/answerlab/answer-agent/internal/verifier"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Config struct {
	OllamaBaseURL   string
	EmbeddingModel  string
	DefaultProvider string
	OpenAIKey       string
	OpenAIBaseURL   string
	AWSRegion       string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	MaxAttempts         int
	ConfidenceThreshold float64
	LLMTimeout          time.Duration
}

type Dependencies struct {
	Plane  *control.Plane
	DB     *database.DB
	Redis  *redis.Client
	Logger *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", embeddings.DefaultModel),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "ollama"),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIBaseURL:   getEnv("OPEN_AI_BASE_URL", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "answers"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getEnvDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),

		MaxAttempts:         getEnvInt("MAX_ATTEMPTS", 2),
		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.70),
		LLMTimeout:          getEnvDuration("LLM_TIMEOUT", 120*time.Second),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	llmClient, err := createLLMClient(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	db, err := database.New(ctx, database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var embedder embeddings.Embedder
	embedder, err = embeddings.NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.EmbeddingModel, cfg.LLMTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = red.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		embedder = embeddings.NewCachedEmbedder(embedder, redisClient, cfg.CacheTTL, logger)
	}

	chunkRepo := database.NewPgChunkRepository(db)
	retriever := retrieval.NewService(embedder, chunkRepo, logger)

	modelCatalog, verificationModel, err := config.LoadModelCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load model catalog: %w", err)
	}

	answerVerifier := verifier.New(llmClient, verificationModel, logger)

	plane := control.NewPlane(
		retriever,
		llmClient,
		answerVerifier,
		modelCatalog,
		strategy.DefaultEscalator(),
		control.Params{
			MaxAttempts:         cfg.MaxAttempts,
			ConfidenceThreshold: cfg.ConfidenceThreshold,
		},
		logger,
	)

	return &Dependencies{
		Plane:  plane,
		DB:     db,
		Redis:  redisClient,
		Logger: logger,
	}, nil
}

// WireIngestion builds the dependencies needed by the ingest command, which
// has no use for the control plane.
func WireIngestion(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*database.DB, embeddings.Embedder, error) {
	db, err := database.New(ctx, database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	embedder, err := embeddings.NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.EmbeddingModel, cfg.LLMTimeout, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return db, embedder, nil
}

func createLLMClient(ctx context.Context, cfg *Config, logger *zerolog.Logger) (llm.Client, error) {
	switch cfg.DefaultProvider {
	case "openai":
		return openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, logger)
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, logger)
	default:
		return ollama.NewClient(cfg.OllamaBaseURL, cfg.LLMTimeout, logger)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
