package retrieval

import "github.com/agentdoc/agentdoc/internal/domain/docmodel"

// StaticPassages is the last-resort context tier. When neither the vector store
// nor the relational store yields anything, the assistant still gets two fixed
// demo passages so the chat flow stays exercisable end to end.
func StaticPassages() []docmodel.Passage {
	return []docmodel.Passage{
		{
			Id:         "mock-1",
			Text:       "This is a sample document chunk that demonstrates how Agent DOC works. It contains information about document processing and retrieval.",
			DocumentId: "mock-doc-1",
			Page:       1,
			Title:      "Sample Document",
			File:       "Sample Document.pdf",
		},
		{
			Id:         "mock-2",
			Text:       "Agent DOC is a document retrieval system that uses AI to answer questions about your documents. It can process PDF files and extract relevant information.",
			DocumentId: "mock-doc-2",
			Page:       1,
			Title:      "Agent DOC Guide",
			File:       "Agent DOC Guide.pdf",
		},
	}
}
