package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// extractPDF walks every page and isolates per-page failures: a page that cannot
// be parsed becomes a placeholder chunk and extraction continues. If the file
// itself cannot be opened the whole document degrades to one marker chunk.
func extractPDF(path string, fileName string, logger *logger_i.Logger) ([]RawChunk, int) {
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file", "error", err)
		return []RawChunk{fallbackChunk(fileName)}, 1
	}

	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)

	var chunks []RawChunk
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			chunks = append(chunks, placeholderPage(fileName, i))
			continue
		}

		content, err := protectExtract(page, logger)
		if err != nil || strings.TrimSpace(content) == "" {
			logger.Warn("page could not be parsed, inserting placeholder", "page", i, "error", err)
			chunks = append(chunks, placeholderPage(fileName, i))
			continue
		}

		chunks = append(chunks, RawChunk{
			Text:    content,
			Page:    i,
			Section: fmt.Sprintf("Page %d", i),
		})
	}

	if len(chunks) == 0 {
		return []RawChunk{fallbackChunk(fileName)}, 1
	}
	return chunks, numPages
}

// extractDocxTxtRtf reads a .docx, .txt or .rtf file as a single page chunk.
func extractDocxTxtRtf(path string, fileName string, logger *logger_i.Logger) []RawChunk {
	text, err := cat.File(path)
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Error("Error extracting content from doc", "error", err)
		return []RawChunk{fallbackChunk(fileName)}
	}

	return []RawChunk{
		{
			Text:    text,
			Page:    1,
			Section: "Document",
		},
	}
}

func placeholderPage(fileName string, page int) RawChunk {
	return RawChunk{
		Text:    fmt.Sprintf("Page %d from %s. This page could not be processed.", page, fileName),
		Page:    page,
		Section: SectionUnprocessed,
	}
}

func fallbackChunk(fileName string) RawChunk {
	return RawChunk{
		Text:    fmt.Sprintf("Document: %s. This file could not be processed.", fileName),
		Page:    1,
		Section: SectionUnprocessed,
	}
}

// protectExtract runs GetPlainText in its own goroutine; the pdf library can hang
// on malformed content streams.
func protectExtract(page pdf.Page, logger *logger_i.Logger) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("panic extracting page: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout", true)
		return "", errors.New("timeout")
	}
}
