// @title           Agent DOC API
// @version         1.0
// @description     Document ingestion and grounded chat over uploaded documents.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/customHttpClient"
	"github.com/agentdoc/agentdoc/internal/data/redisCache"
	"github.com/agentdoc/agentdoc/internal/handlers"
	"github.com/agentdoc/agentdoc/internal/rag/chatgen"
	"github.com/agentdoc/agentdoc/internal/rag/embedding"
	"github.com/agentdoc/agentdoc/internal/rag/embedding/googleEmbedding"
	"github.com/agentdoc/agentdoc/internal/rag/embedding/openaiEmbedding"
	"github.com/agentdoc/agentdoc/internal/rag/ingest"
	"github.com/agentdoc/agentdoc/internal/rag/llm"
	"github.com/agentdoc/agentdoc/internal/rag/llm/geminiLLM"
	"github.com/agentdoc/agentdoc/internal/rag/llm/openaiLLM"
	"github.com/agentdoc/agentdoc/internal/rag/retrieval"
	"github.com/agentdoc/agentdoc/internal/rag/vectorstore"
	"github.com/agentdoc/agentdoc/internal/rag/vectorstore/qdrantstore"
	"github.com/agentdoc/agentdoc/internal/server"
	"github.com/agentdoc/agentdoc/internal/store"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//relational store: postgres when a DSN is set, in-memory for local runs
	var st store.Store
	if dsn := config.DatabaseDSN(); dsn != "" {
		gormStore, err := store.NewGormStore(dsn)
		if err != nil {
			logger.Error("Postgres is unreachable, shutting down", "error", err)
			return
		}
		st = gormStore
	} else {
		logger.Warn("DATABASE_DSN not set, using in-memory store")
		st = store.NewMemoryStore()
	}

	//vector store: the API stays up without it, retrieval degrades to chunk rows
	var vectors vectorstore.Store
	if qdrantClient, err := qdrantstore.NewClient(serviceContext); err != nil {
		logger.Error("Qdrant is offline, vector tier disabled", "error", err)
		vectors = vectorstore.NewUnavailable()
	} else {
		vectors = qdrantClient
	}

	embeddingCache := redisCache.New(serviceContext)
	if embeddingCache == nil {
		logger.Warn("Redis is offline, embedding cache disabled")
	}

	rawEmbedder, provider := initProvider(serviceContext, logger)
	if rawEmbedder != nil {
		rawEmbedder = embedding.NewCached(rawEmbedder, embeddingCache)
	}
	if provider == nil {
		logger.Warn("No generation backend available, chat requests will fail")
	}

	ingestOrchestrator := ingest.NewOrchestrator(st, vectors, rawEmbedder)
	retriever := retrieval.NewService(st, vectors, embedding.NewDegradable(rawEmbedder))
	chatService := chatgen.NewService(st, retriever, provider)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, server.Handlers{
		Documents: handlers.NewDocumentHandler(st, vectors, ingestOrchestrator),
		Chat:      handlers.NewChatHandler(chatService, st),
	})

	<-stopExecution
	logger.Info("Server stopped")
}

// initProvider selects the embedding and generation backend from LLM_PROVIDER.
// OpenAI is the default; Gemini streams without tool support.
func initProvider(ctx context.Context, logger *logger_i.Logger) (embedding.Client, llm.Provider) {
	switch config.LLMProvider() {
	case "gemini":
		apiKey := config.GoogleAPIKey()
		var rawEmbedder embedding.Client
		var provider llm.Provider

		if googleEmbedder, err := googleEmbedding.NewClient(ctx, config.GoogleEmbeddingModel, apiKey); err != nil {
			logger.Error("Google embedding client failed to initialize", "error", err)
		} else {
			rawEmbedder = googleEmbedder
		}
		if geminiClient, err := geminiLLM.NewClient(ctx, config.GeminiModelName, apiKey); err != nil {
			logger.Error("Gemini client failed to initialize", "error", err)
		} else {
			provider = geminiClient
		}
		return rawEmbedder, provider

	default:
		apiKey := config.OpenAIAPIKey()
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is not set")
			return nil, nil
		}
		httpClient := customHttpClient.Pooled()
		return openaiEmbedding.NewClient(apiKey, httpClient), openaiLLM.NewClient(apiKey, httpClient)
	}
}
