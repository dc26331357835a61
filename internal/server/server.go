package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/agentdoc/agentdoc/internal/adapter/utils"
	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/handlers"
	"github.com/agentdoc/agentdoc/internal/middleware"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type Handlers struct {
	Documents *handlers.DocumentHandler
	Chat      *handlers.ChatHandler
}

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string, h Handlers) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Post("/documents", middleware.Wrap(h.Documents.UploadHandler))
	r.Router.Get("/documents/{id}", middleware.Wrap(h.Documents.GetDocumentHandler))
	r.Router.Delete("/documents/{id}", middleware.Wrap(h.Documents.DeleteDocumentHandler))
	r.Router.Post("/chat", middleware.Wrap(h.Chat.PostChatHandler))
	r.Router.Get("/chat/history", middleware.Wrap(h.Chat.GetChatHistoryHandler))

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
