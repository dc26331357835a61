package chatgen

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/internal/rag/embedding"
	"github.com/agentdoc/agentdoc/internal/rag/llm"
	"github.com/agentdoc/agentdoc/internal/rag/retrieval"
	"github.com/agentdoc/agentdoc/internal/rag/vectorstore"
	"github.com/agentdoc/agentdoc/internal/store"
)

type mockProvider struct {
	OnStream func(ctx context.Context, req llm.Request, onToken func(string), execTool llm.ToolExecutor) (string, error)
}

func (m *mockProvider) StreamChat(ctx context.Context, req llm.Request, onToken func(string), execTool llm.ToolExecutor) (string, error) {
	return m.OnStream(ctx, req, onToken, execTool)
}

func (m *mockProvider) Name() string { return "mock" }

func newTestService(t *testing.T, provider llm.Provider) (*Service, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()

	if err := st.CreateDocument(ctx, docmodel.Document{
		Id:        "doc_1",
		UserId:    "user_1",
		Title:     "Handbook",
		FileName:  "handbook.pdf",
		Status:    docmodel.StatusCompleted,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seeding document: %v", err)
	}
	if err := st.CreateChunks(ctx, []docmodel.Chunk{
		{
			Id:         "chunk_1",
			DocumentId: "doc_1",
			Text:       "Vacation carries over for at most five days.",
			Page:       2,
			Section:    "Page 2",
			VectorId:   docmodel.VectorId("doc_1", 0),
			CreatedAt:  time.Now().UTC(),
		},
	}); err != nil {
		t.Fatalf("seeding chunk: %v", err)
	}

	retriever := retrieval.NewService(st, vectorstore.NewUnavailable(), embedding.NewDegradable(nil))
	return NewService(st, retriever, provider), st
}

func chatRequest() Request {
	return Request{
		Scope:    docmodel.Scope{UserId: "user_1", DocumentId: "doc_1"},
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "How much vacation carries over?"}},
	}
}

func TestStreamPersistsAssistantAfterCompletion(t *testing.T) {
	provider := &mockProvider{
		OnStream: func(ctx context.Context, req llm.Request, onToken func(string), execTool llm.ToolExecutor) (string, error) {
			for _, tok := range []string{"Five ", "days ", "[source1]."} {
				onToken(tok)
			}
			return "Five days [source1].", nil
		},
	}
	svc, st := newTestService(t, provider)

	var streamed strings.Builder
	res, err := svc.Stream(context.Background(), chatRequest(), Events{
		OnToken: func(tok string) { streamed.WriteString(tok) },
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if streamed.String() != "Five days [source1]." {
		t.Errorf("streamed %q", streamed.String())
	}

	msgs, err := st.ListChatMessages(context.Background(), res.ChatHistoryId)
	if err != nil {
		t.Fatalf("ListChatMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want user + assistant", len(msgs))
	}
	if msgs[0].Role != docmodel.RoleUser || msgs[1].Role != docmodel.RoleAssistant {
		t.Errorf("message roles out of order: %q, %q", msgs[0].Role, msgs[1].Role)
	}
	if msgs[1].Content != res.Answer {
		t.Errorf("assistant row %q does not match answer %q", msgs[1].Content, res.Answer)
	}
}

func TestStreamAbortKeepsUserMessageOnly(t *testing.T) {
	provider := &mockProvider{
		OnStream: func(ctx context.Context, req llm.Request, onToken func(string), execTool llm.ToolExecutor) (string, error) {
			onToken("Five ")
			return "Five ", context.Canceled
		},
	}
	svc, st := newTestService(t, provider)

	res, err := svc.Stream(context.Background(), chatRequest(), Events{})
	if err == nil {
		t.Fatal("expected the abort to surface")
	}
	if res.ChatHistoryId == "" {
		t.Fatal("history row must exist before streaming starts")
	}

	msgs, err := st.ListChatMessages(context.Background(), res.ChatHistoryId)
	if err != nil {
		t.Fatalf("ListChatMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Role != docmodel.RoleUser {
		t.Fatalf("aborted stream persisted %d messages (want only the user row)", len(msgs))
	}
}

func TestStreamRejectsForeignScope(t *testing.T) {
	provider := &mockProvider{
		OnStream: func(ctx context.Context, req llm.Request, onToken func(string), execTool llm.ToolExecutor) (string, error) {
			t.Fatal("generation must not run for a scope the user does not own")
			return "", nil
		},
	}
	svc, st := newTestService(t, provider)

	req := chatRequest()
	req.Scope.UserId = "intruder"
	_, err := svc.Stream(context.Background(), req, Events{})
	if !errors.Is(err, docmodel.ErrScopeNotOwned) {
		t.Fatalf("err = %v, want ErrScopeNotOwned", err)
	}

	histories, err := st.ListChatHistories(context.Background(), "intruder")
	if err != nil {
		t.Fatalf("ListChatHistories: %v", err)
	}
	if len(histories) != 0 {
		t.Errorf("rejected chat still wrote %d history rows", len(histories))
	}
}

func TestDocumentPreviewToolDispatch(t *testing.T) {
	var preview SourcePreview
	provider := &mockProvider{
		OnStream: func(ctx context.Context, req llm.Request, onToken func(string), execTool llm.ToolExecutor) (string, error) {
			if len(req.Tools) != 1 || req.Tools[0].Name != ToolDocumentPreview {
				t.Fatalf("tool spec not offered: %+v", req.Tools)
			}

			result, err := execTool(ctx, llm.ToolCall{Id: "call_1", Name: ToolDocumentPreview, Arguments: `{"sourceId": 1}`})
			if err != nil {
				t.Fatalf("valid tool call failed: %v", err)
			}
			if !strings.Contains(result, "Vacation carries over") {
				t.Errorf("tool result missing excerpt text: %s", result)
			}

			_, err = execTool(ctx, llm.ToolCall{Id: "call_2", Name: ToolDocumentPreview, Arguments: `{"sourceId": 9}`})
			if !errors.Is(err, docmodel.ErrToolArgumentOutOfRange) {
				t.Fatalf("out-of-range sourceId: err = %v", err)
			}
			return "Done [source1].", nil
		},
	}
	svc, _ := newTestService(t, provider)

	_, err := svc.Stream(context.Background(), chatRequest(), Events{
		OnSource: func(p SourcePreview) { preview = p },
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if preview.SourceId != 1 || preview.Passage.Id != "chunk_1" {
		t.Errorf("source event not emitted for the previewed passage: %+v", preview)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt([]docmodel.Passage{
		{Id: "chunk_1", Text: "Alpha text.", Title: "Handbook", Page: 3},
		{Id: "chunk_2", Text: "Beta text.", Title: "Guide", Page: 7},
	})

	for _, want := range []string{
		"[source1] Alpha text. (From: Handbook, Page 3)",
		"[source2] Beta text. (From: Guide, Page 7)",
		FallbackAnswer,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
