package openaiLLM

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/agentdoc/agentdoc/internal/config"
	"github.com/agentdoc/agentdoc/internal/domain/docmodel"
	"github.com/agentdoc/agentdoc/internal/rag/llm"
	"github.com/agentdoc/agentdoc/pkg/logger_i"
)

// Client streams chat completions from OpenAI with full tool-call support. Tool
// rounds are bounded by config.MaxToolRounds so a model stuck requesting tools
// cannot loop forever.
type Client struct {
	client openai.Client
	logger *logger_i.Logger
}

func NewClient(apiKey string, httpClient *http.Client) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Client{
		client: openai.NewClient(opts...),
		logger: logger_i.NewLogger("openai_llm"),
	}
}

func (c *Client) Name() string {
	return "openai"
}

func (c *Client) StreamChat(ctx context.Context, req llm.Request, onToken func(token string), execTool llm.ToolExecutor) (string, error) {
	messages := toMessageParams(req.Messages)
	tools := toToolParams(req.Tools)

	var final strings.Builder
	for round := 0; round <= config.MaxToolRounds; round++ {
		params := openai.ChatCompletionNewParams{
			Model:       config.OpenAIChatModel,
			Messages:    messages,
			Temperature: openai.Float(req.Temperature),
		}
		if len(tools) > 0 {
			params.Tools = tools
		}

		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		acc := openai.ChatCompletionAccumulator{}
		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				final.WriteString(delta)
				onToken(delta)
			}
		}
		if err := stream.Err(); err != nil {
			return final.String(), fmt.Errorf("%w: %v", docmodel.ErrGenerationUnavailable, err)
		}
		if len(acc.Choices) == 0 {
			return final.String(), nil
		}

		choice := acc.Choices[0]
		if choice.FinishReason != "tool_calls" || len(choice.Message.ToolCalls) == 0 {
			return final.String(), nil
		}
		if execTool == nil {
			c.logger.Warn("model requested tools but no executor is wired", "calls", len(choice.Message.ToolCalls))
			return final.String(), nil
		}

		// Feed the assistant turn plus one tool result per call back into the
		// conversation, then stream the next round.
		messages = append(messages, choice.Message.ToParam())
		for _, call := range choice.Message.ToolCalls {
			c.logger.Debug("dispatching tool call", "tool", call.Function.Name, "id", call.ID)
			result, err := execTool(ctx, llm.ToolCall{
				Id:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
			if err != nil {
				result = "Error: " + err.Error()
			}
			messages = append(messages, openai.ToolMessage(result, call.ID))
		}
	}

	c.logger.Warn("tool round limit reached, returning accumulated text", "rounds", config.MaxToolRounds)
	return final.String(), nil
}

func toMessageParams(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

func toToolParams(tools []llm.ToolSpec) []openai.ChatCompletionToolUnionParam {
	params := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		params = append(params, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.Parameters),
		}))
	}
	return params
}
