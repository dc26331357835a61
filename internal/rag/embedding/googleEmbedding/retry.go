package googleEmbedding

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

const (
	maxAttempts  = 3
	retryBackoff = 2 * time.Second
)

func doRetry(err error, log *logger_i.Logger) bool {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			log.Error("Rate limit hit! ", "error", err)
			return true
		}
	}
	return false
}

// withRetry re-issues the call after a short backoff when Gemini answers with
// ResourceExhausted. Any other error surfaces immediately.
func withRetry[T any](ctx context.Context, log *logger_i.Logger, call func() (T, error)) (T, error) {
	var res T
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err = call()
		if err == nil || !doRetry(err, log) {
			return res, err
		}
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return res, err
}
