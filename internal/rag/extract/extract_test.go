package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

var logExtractTest = logger_i.NewLogger("extract test")

func writeFixture(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestExtractTxtSinglePage(t *testing.T) {
	content := "Expense claims must be filed within thirty days of purchase."
	path := writeFixture(t, "policy.txt", content)

	chunks, pages, err := Extract(path, "policy.txt", DOCX, logExtractTest)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if pages != 1 {
		t.Errorf("pages = %d, want 1", pages)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != content {
		t.Errorf("chunk text = %q, want the file content", chunks[0].Text)
	}
	if chunks[0].Page != 1 {
		t.Errorf("chunk page = %d, want 1", chunks[0].Page)
	}
	if chunks[0].Section == SectionUnprocessed {
		t.Error("readable file produced an unprocessed chunk")
	}
}

func TestExtractEmptyTxtDegradesToFallbackChunk(t *testing.T) {
	path := writeFixture(t, "empty.txt", "")

	chunks, pages, err := Extract(path, "empty.txt", DOCX, logExtractTest)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if pages != 1 || len(chunks) != 1 {
		t.Fatalf("got %d chunks / %d pages, want exactly one fallback chunk", len(chunks), pages)
	}
	if chunks[0].Section != SectionUnprocessed {
		t.Errorf("fallback section = %q, want %q", chunks[0].Section, SectionUnprocessed)
	}
}

func TestExtractCorruptPdfDegradesToFallbackChunk(t *testing.T) {
	path := writeFixture(t, "broken.pdf", "this is not a pdf file at all")

	chunks, pages, err := Extract(path, "broken.pdf", PDF, logExtractTest)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if pages != 1 || len(chunks) != 1 {
		t.Fatalf("got %d chunks / %d pages, want exactly one fallback chunk", len(chunks), pages)
	}
	if chunks[0].Section != SectionUnprocessed {
		t.Errorf("fallback section = %q, want %q", chunks[0].Section, SectionUnprocessed)
	}
	if chunks[0].Page != 1 {
		t.Errorf("fallback page = %d, want 1", chunks[0].Page)
	}
	if chunks[0].Text == "" {
		t.Error("fallback chunk has no text")
	}
}

func TestExtractUnsupportedTypeFails(t *testing.T) {
	chunks, _, err := Extract("", "image.png", ERR, logExtractTest)
	if !errors.Is(err, docmodel.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if chunks != nil {
		t.Errorf("unsupported type still produced chunks: %v", chunks)
	}
}

func TestPlaceholderPageKeepsPageNumber(t *testing.T) {
	chunk := placeholderPage("report.pdf", 4)
	if chunk.Page != 4 {
		t.Errorf("page = %d, want 4", chunk.Page)
	}
	if chunk.Section != SectionUnprocessed {
		t.Errorf("section = %q, want %q", chunk.Section, SectionUnprocessed)
	}
	if chunk.Text == "" {
		t.Error("placeholder has no text")
	}
}
