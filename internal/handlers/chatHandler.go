package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/agentdoc/agentdoc/internal/adapter"
	"github.com/agentdoc/agentdoc/internal/api"
	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/internal/rag/chatgen"
	"github.com/agentdoc/agentdoc/internal/rag/llm"
	"github.com/agentdoc/agentdoc/internal/store"
)

// ChatHandler streams grounded answers over SSE and serves the chat history.
type ChatHandler struct {
	chat  *chatgen.Service
	store store.Store
}

func NewChatHandler(chat *chatgen.Service, st store.Store) *ChatHandler {
	return &ChatHandler{chat: chat, store: st}
}

// PostChatHandler godoc
// @Summary      Stream a grounded chat answer
// @Description  Retrieves passages for the last user message and streams the completion as SSE: token events, source events for tool previews, then a terminal done or error event.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body  api.ChatRequest  true  "Conversation turns plus optional document or collection scope"
// @Success      200  {string}  string             "SSE stream"
// @Failure      400  {object}  api.ErrorResponse  "Invalid request data"
// @Failure      404  {object}  api.ErrorResponse  "Scoped document or collection not found"
// @Router       /chat [post]
func (h *ChatHandler) PostChatHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	var requestData api.ChatRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the Chat handler reader :", "error", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {
		logRH.Warn("Bad Chat Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Streaming unsupported")
		return
	}

	req := chatgen.Request{
		Scope: docmodel.Scope{
			UserId:       userIdFromContext(r.Context()),
			DocumentId:   requestData.DocumentId,
			CollectionId: requestData.CollectionId,
		},
		Messages: toLLMMessages(requestData.Messages),
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	streaming := false
	events := chatgen.Events{
		OnToken: func(token string) {
			streaming = true
			writeStreamEvent(w, flusher, "token", map[string]string{"token": token})
		},
		OnSource: func(preview chatgen.SourcePreview) {
			streaming = true
			writeStreamEvent(w, flusher, "source", adapter.ToStreamSourceEvent(preview))
		},
	}

	result, err := h.chat.Stream(r.Context(), req, events)
	if err != nil {
		// Nothing streamed yet: a plain status code is still possible.
		if !streaming && errors.Is(err, docmodel.ErrScopeNotOwned) {
			w.Header().Set("Content-Type", "application/json")
			WriteErrorResponse(w, http.StatusNotFound, "", "Document or collection not found")
			return
		}
		logRH.Error("chat stream failed", "error", err)
		writeStreamEvent(w, flusher, "error", api.StreamErrorEvent{Message: "generation failed"})
		return
	}

	writeStreamEvent(w, flusher, "done", api.StreamDoneEvent{ChatHistoryId: result.ChatHistoryId})
}

// GetChatHistoryHandler godoc
// @Summary      List chat histories
// @Description  Returns the caller's chat history rows, newest first.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Success      200  {array}  api.ChatHistoryResponse  "Chat histories"
// @Router       /chat/history [get]
func (h *ChatHandler) GetChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	histories, err := h.store.ListChatHistories(r.Context(), userIdFromContext(r.Context()))
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToChatHistoryResponses(histories))
}

func ValidateChatRequest(requestData api.ChatRequest) bool {
	if len(requestData.Messages) == 0 {
		return false
	}
	if requestData.DocumentId != "" && requestData.CollectionId != "" {
		return false
	}
	hasUserContent := false
	for _, m := range requestData.Messages {
		if m.Role == llm.RoleUser && m.Content != "" {
			hasUserContent = true
		}
	}
	return hasUserContent
}

func toLLMMessages(messages []api.ChatMessage) []llm.Message {
	res := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		res = append(res, llm.Message{Role: m.Role, Content: m.Content})
	}
	return res
}

func writeStreamEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logRH.Error("Couldn't marshal stream event", "event", event, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
