package store

import (
	"context"
	"testing"
	"time"

	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
)

func TestMemoryStoreChunkRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	doc := docmodel.Document{
		Id:        "doc_1",
		UserId:    "user_1",
		Title:     "Handbook",
		FileName:  "handbook.pdf",
		Status:    docmodel.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	if err := st.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	in := []docmodel.Chunk{
		{Id: "chunk_1", DocumentId: "doc_1", Text: "First page text.", Page: 1, Section: "Page 1", VectorId: docmodel.VectorId("doc_1", 0)},
		{Id: "chunk_2", DocumentId: "doc_1", Text: "Second page text.", Page: 2, Section: "Page 2", VectorId: docmodel.VectorId("doc_1", 1)},
	}
	if err := st.CreateChunks(ctx, in); err != nil {
		t.Fatalf("CreateChunks: %v", err)
	}

	out, err := st.ListChunks(ctx, []string{"doc_1"}, 0)
	if err != nil {
		t.Fatalf("ListChunks: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d chunks, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Chunk.DocumentId != in[i].DocumentId || out[i].Chunk.Page != in[i].Page || out[i].Chunk.Text != in[i].Text {
			t.Errorf("chunk %d did not survive the round trip: %+v", i, out[i].Chunk)
		}
		if out[i].DocTitle != doc.Title || out[i].DocFile != doc.FileName {
			t.Errorf("chunk %d missing joined document fields: %+v", i, out[i])
		}
	}
}

func TestMemoryStoreOwnership(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.CreateDocument(ctx, docmodel.Document{Id: "doc_1", UserId: "user_1"}); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	if _, found, _ := st.GetDocument(ctx, "doc_1", "user_1"); !found {
		t.Error("owner cannot read own document")
	}
	if _, found, _ := st.GetDocument(ctx, "doc_1", "user_2"); found {
		t.Error("foreign document readable")
	}

	ids, err := st.ListDocumentIdsByOwner(ctx, "user_2")
	if err != nil {
		t.Fatalf("ListDocumentIdsByOwner: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("foreign owner sees %d documents", len(ids))
	}
}

func TestMemoryStoreSetDocumentStatus(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.CreateDocument(ctx, docmodel.Document{Id: "doc_1", UserId: "user_1", Status: docmodel.StatusProcessing}); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	pages := 7
	if err := st.SetDocumentStatus(ctx, "doc_1", docmodel.StatusCompleted, &pages); err != nil {
		t.Fatalf("SetDocumentStatus: %v", err)
	}

	doc, _, err := st.GetDocument(ctx, "doc_1", "user_1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Status != docmodel.StatusCompleted || doc.PageCount == nil || *doc.PageCount != 7 {
		t.Errorf("status update lost: %+v", doc)
	}
}

func TestMemoryStoreDeleteDocumentCascades(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.CreateDocument(ctx, docmodel.Document{Id: "doc_1", UserId: "user_1"}); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if err := st.CreateChunks(ctx, []docmodel.Chunk{{Id: "chunk_1", DocumentId: "doc_1", Text: "text"}}); err != nil {
		t.Fatalf("CreateChunks: %v", err)
	}
	if err := st.CreateCollection(ctx, docmodel.Collection{Id: "col_1", UserId: "user_1"}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if err := st.AddDocumentToCollection(ctx, "doc_1", "col_1"); err != nil {
		t.Fatalf("AddDocumentToCollection: %v", err)
	}

	if err := st.DeleteDocument(ctx, "doc_1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}

	if _, found, _ := st.GetDocument(ctx, "doc_1", "user_1"); found {
		t.Error("document survived delete")
	}
	chunks, _ := st.ListChunks(ctx, []string{"doc_1"}, 0)
	if len(chunks) != 0 {
		t.Errorf("%d chunks survived delete", len(chunks))
	}
	linked, _ := st.ListCollectionDocumentIds(ctx, "col_1")
	if len(linked) != 0 {
		t.Errorf("collection link survived delete: %v", linked)
	}
}

func TestMemoryStoreChatHistoryOrdering(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	older := docmodel.ChatHistory{Id: "chat_1", UserId: "user_1", Query: "first", CreatedAt: time.Now().Add(-time.Hour)}
	newer := docmodel.ChatHistory{Id: "chat_2", UserId: "user_1", Query: "second", CreatedAt: time.Now()}
	for _, h := range []docmodel.ChatHistory{older, newer} {
		if err := st.CreateChatHistory(ctx, h); err != nil {
			t.Fatalf("CreateChatHistory: %v", err)
		}
	}

	histories, err := st.ListChatHistories(ctx, "user_1")
	if err != nil {
		t.Fatalf("ListChatHistories: %v", err)
	}
	if len(histories) != 2 || histories[0].Id != "chat_2" {
		t.Errorf("histories not newest first: %+v", histories)
	}

	if err := st.AppendChatMessage(ctx, docmodel.ChatMessage{Id: "msg_1", ChatHistoryId: "chat_2", Role: docmodel.RoleUser, Content: "second"}); err != nil {
		t.Fatalf("AppendChatMessage: %v", err)
	}
	msgs, err := st.ListChatMessages(ctx, "chat_2")
	if err != nil {
		t.Fatalf("ListChatMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "second" {
		t.Errorf("messages lost: %+v", msgs)
	}
}
