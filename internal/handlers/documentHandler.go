package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agentdoc/agentdoc/internal/adapter"
	"github.com/agentdoc/agentdoc/internal/adapter/utils"
	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/internal/rag/extract"
	"github.com/agentdoc/agentdoc/internal/rag/ingest"
	"github.com/agentdoc/agentdoc/internal/rag/vectorstore"
	"github.com/agentdoc/agentdoc/internal/store"
)

// DocumentHandler owns the document lifecycle endpoints. Ingestion itself runs
// detached; the handler only validates, persists the PROCESSING row and hands off.
type DocumentHandler struct {
	store   store.Store
	vectors vectorstore.Store
	ingest  *ingest.Orchestrator
}

func NewDocumentHandler(st store.Store, vectors vectorstore.Store, orchestrator *ingest.Orchestrator) *DocumentHandler {
	return &DocumentHandler{store: st, vectors: vectors, ingest: orchestrator}
}

// UploadHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a PDF or DOCX via multipart/form-data, saves it to a temporary directory, and starts background ingestion.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  false  "Display name; defaults to the file name without extension"
// @Param        collection_id  formData  string  false  "Collection to link the document into"
// @Param        document       formData  file    true   "The PDF or DOCX file to upload"
// @Success      202  {object}  api.UploadResponse  "Accepted - ingestion started"
// @Failure      400  {object}  api.ErrorResponse   "Missing file, unsupported format or file too large"
// @Failure      404  {object}  api.ErrorResponse   "Collection not found"
// @Failure      500  {object}  api.ErrorResponse   "Storage or write error"
// @Router       /documents [post]
func (h *DocumentHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	userId := userIdFromContext(r.Context())

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	if extract.DetectType(fileMetadata.Filename) == extract.ERR {
		WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, "Unsupported file format")
		return
	}
	if fileMetadata.Size > config.MaxUploadBytes {
		WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, "File too large")
		return
	}

	title := r.FormValue("document_name")
	if title == "" {
		title = titleFromFileName(fileMetadata.Filename)
	}

	collectionId := r.FormValue("collection_id")
	if collectionId != "" {
		_, found, err := h.store.GetCollection(r.Context(), collectionId, userId)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, collectionId, "Storage error")
			return
		}
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, collectionId, "Collection not found")
			return
		}
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, title, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		removeTempFile(tempFilePath)
		WriteErrorResponse(w, http.StatusInternalServerError, title, "Write error")
		return
	}

	doc := docmodel.Document{
		Id:        "doc_" + utils.GetNewUUID(),
		UserId:    userId,
		Title:     title,
		FileName:  fileMetadata.Filename,
		FileSize:  fileMetadata.Size,
		FileType:  fileMetadata.Header.Get("Content-Type"),
		Status:    docmodel.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateDocument(r.Context(), doc); err != nil {
		logRH.Error("Couldn't create document row", "error", err)
		removeTempFile(tempFilePath)
		WriteErrorResponse(w, http.StatusInternalServerError, title, "Storage error")
		return
	}
	if collectionId != "" {
		if err := h.store.AddDocumentToCollection(r.Context(), doc.Id, collectionId); err != nil {
			logRH.Error("Couldn't link document to collection", "error", err, "collectionId", collectionId)
		}
	}

	// Detached: the upload response never waits on ingestion. WithoutCancel keeps
	// the trace id alive after this request finishes.
	go h.ingest.Run(context.WithoutCancel(r.Context()), doc, tempFilePath)

	writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(doc.Id))
}

// removeTempFile cleans up an upload that never reached ingestion; the happy
// path is removed by the ingestion run itself.
func removeTempFile(tempFilePath string) {
	if err := os.Remove(tempFilePath); err != nil {
		logRH.Error("Couldn't remove temporary upload", "path", tempFilePath, "error", err)
	}
}

// GetDocumentHandler godoc
// @Summary      Get document status
// @Description  Retrieves a document's processing status and page count. Documents owned by other users read as absent.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse  "The document"
// @Failure      404  {object}  api.ErrorResponse     "Document not found"
// @Router       /documents/{id} [get]
func (h *DocumentHandler) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	logRH.Debug("Get Document Request:", "URL path", r.URL.Path)

	doc, found, err := h.store.GetDocument(r.Context(), idString, userIdFromContext(r.Context()))
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, idString, "Storage error")
		return
	}
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Document not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(doc))
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document's vectors (best effort) and then its rows. Vector store failures are logged, not surfaced.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        id   path   string  true  "Document ID"
// @Success      204  "Deleted"
// @Failure      404  {object}  api.ErrorResponse  "Document not found"
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	_, found, err := h.store.GetDocument(r.Context(), idString, userIdFromContext(r.Context()))
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, idString, "Storage error")
		return
	}
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Document not found")
		return
	}

	filter := vectorstore.Filter{
		Must: []vectorstore.Match{{Key: "documentId", Value: idString}},
	}
	if err := h.vectors.DeleteByFilter(r.Context(), config.VectorCollection, filter); err != nil {
		logRH.Warn("vector cleanup failed, rows still deleted", "documentId", idString, "error", err)
	}

	if err := h.store.DeleteDocument(r.Context(), idString); err != nil {
		logRH.Error("Couldn't delete document", "documentId", idString, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, idString, "Storage error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
