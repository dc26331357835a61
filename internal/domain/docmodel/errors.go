package docmodel

import "errors"

// Failure taxonomy for the ingestion and query pipelines. Handlers map these to
// HTTP codes; orchestrators decide between fallback and abort on them.
var (
	// ErrUnsupportedFormat aborts an upload before any processing starts.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrScopeNotOwned is surfaced as "not found" so existence never leaks.
	ErrScopeNotOwned = errors.New("scope not found")

	// ErrVectorStoreUnavailable is fatal for ingestion's upsert and a fallback
	// trigger everywhere else.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrGenerationUnavailable means no completion could be produced at all.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrToolArgumentOutOfRange terminates a single tool invocation; the model
	// sees it as a tool error, the end user never does.
	ErrToolArgumentOutOfRange = errors.New("tool argument out of range")

	ErrNotFound = errors.New("not found")
)
