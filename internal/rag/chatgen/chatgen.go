package chatgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/internal/metrics"
	"github.com/agentdoc/agentdoc/internal/rag/llm"
	"github.com/agentdoc/agentdoc/internal/rag/retrieval"
	"github.com/agentdoc/agentdoc/internal/store"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// FallbackAnswer is the exact phrase the model is instructed to use when the
// excerpts cannot answer the question. Clients key off it verbatim.
const FallbackAnswer = "I don't have enough information about that."

// ToolDocumentPreview lets the model request the full excerpt behind a
// [source#] label mid-generation.
const ToolDocumentPreview = "documentPreview"

// SourcePreview is a documentPreview result pushed to the client while the
// answer is still streaming.
type SourcePreview struct {
	SourceId int              `json:"source_id"`
	Passage  docmodel.Passage `json:"passage"`
}

// Events receives stream output as it is produced. Both callbacks are optional.
type Events struct {
	OnToken  func(token string)
	OnSource func(preview SourcePreview)
}

type Request struct {
	Scope    docmodel.Scope
	Messages []llm.Message
}

type Result struct {
	ChatHistoryId string
	Answer        string
	Passages      []docmodel.Passage
}

// Service runs one grounded chat turn: retrieve passages, persist the history
// row and the user message, stream the completion, persist the assistant
// message. The assistant row is written only after the stream fully completes;
// a cancelled or failed stream leaves the user message as the last row.
type Service struct {
	store     store.Store
	retriever *retrieval.Service
	provider  llm.Provider
	logger    *logger_i.Logger
}

func NewService(st store.Store, retriever *retrieval.Service, provider llm.Provider) *Service {
	return &Service{
		store:     st,
		retriever: retriever,
		provider:  provider,
		logger:    logger_i.NewLogger("Chat Generation"),
	}
}

func (s *Service) Stream(ctx context.Context, req Request, events Events) (Result, error) {
	start := time.Now()
	status := "error"
	defer func() { metrics.CaptureStreamMetrics(status, time.Since(start)) }()

	if s.provider == nil {
		return Result{}, docmodel.ErrGenerationUnavailable
	}

	query := lastUserMessage(req.Messages)
	if query == "" {
		return Result{}, fmt.Errorf("chat request carries no user message")
	}

	passages, err := s.retriever.Retrieve(ctx, req.Scope, query)
	if err != nil {
		return Result{}, err
	}

	history := docmodel.ChatHistory{
		Id:           "chat_" + uuid.New().String(),
		UserId:       req.Scope.UserId,
		DocumentId:   req.Scope.DocumentId,
		CollectionId: req.Scope.CollectionId,
		Query:        query,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateChatHistory(ctx, history); err != nil {
		return Result{}, err
	}
	if err := s.appendMessage(ctx, history.Id, docmodel.RoleUser, query); err != nil {
		return Result{}, err
	}

	messages := append([]llm.Message{
		{Role: llm.RoleSystem, Content: BuildSystemPrompt(passages)},
	}, req.Messages...)

	onToken := events.OnToken
	if onToken == nil {
		onToken = func(string) {}
	}

	answer, err := s.provider.StreamChat(ctx, llm.Request{
		Messages:    messages,
		Tools:       []llm.ToolSpec{documentPreviewSpec()},
		Temperature: config.ModelTemperature,
	}, onToken, s.toolExecutor(passages, events))
	if err != nil {
		s.logger.Error("stream aborted, assistant message not persisted", "chatHistoryId", history.Id, "error", err)
		return Result{ChatHistoryId: history.Id}, err
	}

	// Persist with a fresh context: the request context may already be done by
	// the time the last token arrives.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.appendMessage(persistCtx, history.Id, docmodel.RoleAssistant, answer); err != nil {
		s.logger.Error("could not persist assistant message", "chatHistoryId", history.Id, "error", err)
	}

	status = "completed"
	return Result{ChatHistoryId: history.Id, Answer: answer, Passages: passages}, nil
}

func (s *Service) appendMessage(ctx context.Context, historyId string, role docmodel.ChatRole, content string) error {
	return s.store.AppendChatMessage(ctx, docmodel.ChatMessage{
		Id:            "msg_" + uuid.New().String(),
		ChatHistoryId: historyId,
		Role:          role,
		Content:       content,
		CreatedAt:     time.Now().UTC(),
	})
}

// toolExecutor resolves documentPreview calls against this turn's passages.
// Source ids are 1-based, matching the [source#] labels in the prompt. A bad
// id is reported to the model as a tool error, never to the stream.
func (s *Service) toolExecutor(passages []docmodel.Passage, events Events) llm.ToolExecutor {
	return func(ctx context.Context, call llm.ToolCall) (string, error) {
		if call.Name != ToolDocumentPreview {
			return "", fmt.Errorf("unknown tool %q", call.Name)
		}

		var args struct {
			SourceId int `json:"sourceId"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", fmt.Errorf("invalid %s arguments: %w", ToolDocumentPreview, err)
		}
		if args.SourceId < 1 || args.SourceId > len(passages) {
			return "", fmt.Errorf("%w: sourceId %d, have %d sources", docmodel.ErrToolArgumentOutOfRange, args.SourceId, len(passages))
		}

		preview := SourcePreview{SourceId: args.SourceId, Passage: passages[args.SourceId-1]}
		if events.OnSource != nil {
			events.OnSource(preview)
		}

		payload, err := json.Marshal(preview)
		if err != nil {
			return "", err
		}
		return string(payload), nil
	}
}

// BuildSystemPrompt grounds the model in the retrieved excerpts and pins the
// citation and fallback behavior.
func BuildSystemPrompt(passages []docmodel.Passage) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant that answers questions based on the provided document excerpts.\n")
	b.WriteString("Answer ONLY from the excerpts below. Cite every claim with its [source#] label.\n")
	b.WriteString("Use the " + ToolDocumentPreview + " tool when you need the full excerpt behind a source.\n")
	b.WriteString("If the excerpts do not contain enough information, reply exactly: " + FallbackAnswer + "\n\n")
	b.WriteString("Excerpts:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[source%d] %s (From: %s, Page %d)\n", i+1, p.Text, p.Title, p.Page)
	}
	return b.String()
}

func documentPreviewSpec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        ToolDocumentPreview,
		Description: "Returns the full excerpt and document metadata behind one [source#] label.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sourceId": map[string]any{
					"type":        "integer",
					"description": "1-based source number as shown in the excerpt labels",
				},
			},
			"required": []string{"sourceId"},
		},
	}
}

func lastUserMessage(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
