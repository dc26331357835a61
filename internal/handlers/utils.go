package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentdoc/agentdoc/internal/adapter"
	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

var logRH = logger_i.NewLogger("handlers")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func validateContext(ctx context.Context) bool {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		logRH.With("traceId", trace)
	}
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}

// userIdFromContext reads the owner id the auth middleware resolved. Empty means
// the middleware chain was bypassed.
func userIdFromContext(ctx context.Context) string {
	if userId, ok := ctx.Value(config.USER_ID_KEY).(string); ok {
		return userId
	}
	return ""
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

// titleFromFileName strips the extension: "handbook.pdf" -> "handbook".
func titleFromFileName(fileName string) string {
	if idx := strings.LastIndex(fileName, "."); idx > 0 {
		return fileName[:idx]
	}
	return fileName
}
