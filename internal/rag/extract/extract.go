package extract

import (
	"path/filepath"
	"strings"

	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

type DocType string

const (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	ERR  DocType = "ERROR"
)

// SectionUnprocessed marks chunks produced by degraded extraction so callers can
// tell a placeholder from real content.
const SectionUnprocessed = "Unprocessed"

// RawChunk is one extracted unit of document text before keywords/embedding.
type RawChunk struct {
	Text    string
	Page    int
	Section string
}

func DetectType(fileName string) DocType {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".pdf":
		return PDF
	case ".docx", ".txt", ".rtf":
		return DOCX
	default:
		return ERR
	}
}

// Extract splits the document at path into page scoped chunks and reports the page
// count. For supported types it always yields at least one chunk: structural parse
// failures degrade to a single SectionUnprocessed chunk instead of an error, and a
// failure on one page never aborts the remaining pages. Unsupported types fail the
// whole call.
func Extract(path string, fileName string, docType DocType, logger *logger_i.Logger) ([]RawChunk, int, error) {
	switch docType {
	case PDF:
		chunks, pages := extractPDF(path, fileName, logger)
		return chunks, pages, nil
	case DOCX:
		chunks := extractDocxTxtRtf(path, fileName, logger)
		return chunks, 1, nil
	default:
		return nil, 0, docmodel.ErrUnsupportedFormat
	}
}
