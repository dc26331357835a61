package adapter

import (
	"fmt"

	"github.com/agentdoc/agentdoc/internal/api"
	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/internal/rag/chatgen"
)

func ToUploadResponse(documentId string) api.UploadResponse {
	return api.UploadResponse{
		DocumentId: documentId,
		StatusURL:  fmt.Sprintf("documents/%s", documentId),
	}
}

func ToDocumentResponse(doc docmodel.Document) api.DocumentResponse {
	return api.DocumentResponse{
		Id:        doc.Id,
		Title:     doc.Title,
		FileName:  doc.FileName,
		FileType:  doc.FileType,
		FileSize:  doc.FileSize,
		Status:    string(doc.Status),
		PageCount: doc.PageCount,
		CreatedAt: doc.CreatedAt,
	}
}

func ToChatHistoryResponses(histories []docmodel.ChatHistory) []api.ChatHistoryResponse {
	res := make([]api.ChatHistoryResponse, 0, len(histories))
	for _, h := range histories {
		res = append(res, api.ChatHistoryResponse{
			Id:           h.Id,
			DocumentId:   h.DocumentId,
			CollectionId: h.CollectionId,
			Query:        h.Query,
			CreatedAt:    h.CreatedAt,
		})
	}
	return res
}

func ToStreamSourceEvent(preview chatgen.SourcePreview) api.StreamSourceEvent {
	return api.StreamSourceEvent{
		SourceId:   preview.SourceId,
		Text:       preview.Passage.Text,
		DocumentId: preview.Passage.DocumentId,
		Page:       preview.Passage.Page,
		Title:      preview.Passage.Title,
		File:       preview.Passage.File,
	}
}

func BadRequest(id string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: message,
		Id:      id,
	}
}
