package customHttpClient

import (
	"net/http"

	"github.com/agentdoc/agentdoc/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// Pooled returns the shared connection-reusing client handed to the OpenAI SDK;
// embeddings and chat completions hit the same host constantly.
func Pooled() *http.Client {
	return &http.Client{Transport: customTransport}
}
