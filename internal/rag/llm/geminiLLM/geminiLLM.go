package geminiLLM

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/internal/rag/llm"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// Client streams chat completions from Gemini. This provider does not dispatch
// tool calls: when a request carries tools it logs the fact and streams a plain
// completion, so citations degrade to inline [source#] markers only.
type Client struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewClient(ctx context.Context, modelName string, apikey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, err
	}
	return &Client{
		client:    c,
		modelName: modelName,
		logger:    logger_i.NewLogger("gemini_llm"),
	}, nil
}

func (c *Client) Name() string {
	return "gemini"
}

func (c *Client) StreamChat(ctx context.Context, req llm.Request, onToken func(token string), execTool llm.ToolExecutor) (string, error) {
	if len(req.Tools) > 0 {
		c.logger.Warn("tool calls are not supported by this provider, streaming without tools", "tools", len(req.Tools))
	}

	contents, systemInstruction := toContents(req.Messages)
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}

	var final strings.Builder
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.modelName, contents, contentConfig) {
		if err != nil {
			return final.String(), fmt.Errorf("%w: %v", docmodel.ErrGenerationUnavailable, err)
		}
		if text := resp.Text(); text != "" {
			final.WriteString(text)
			onToken(text)
		}
	}
	return final.String(), nil
}

// toContents splits the conversation into Gemini contents plus the system
// instruction, which Gemini carries in config rather than as a turn.
func toContents(messages []llm.Message) ([]*genai.Content, *genai.Content) {
	var systemInstruction *genai.Content
	contents := make([]*genai.Content, 0, len(messages))

	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			systemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}
	return contents, systemInstruction
}
