package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// OpenAIGenerator calls an OpenAI compatible endpoint through langchaingo.
type OpenAIGenerator struct {
	llm          llms.Model
	options      []llms.CallOption
	historyLimit int
}

// NewOpenAIGenerator builds the langchaingo client from cfg.
func NewOpenAIGenerator(cfg config.AIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("openai api_key and model are required")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return newOpenAIGenerator(llm, cfg), nil
}

func newOpenAIGenerator(llm llms.Model, cfg config.AIConfig) *OpenAIGenerator {
	var callOpts []llms.CallOption
	if cfg.Temperature != nil {
		callOpts = append(callOpts, llms.WithTemperature(*cfg.Temperature))
	}
	if cfg.MaxTokens != nil {
		callOpts = append(callOpts, llms.WithMaxTokens(*cfg.MaxTokens))
	}
	return &OpenAIGenerator{llm: llm, options: callOpts, historyLimit: cfg.HistoryLimit}
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	history := trimHistory(req.History, g.historyLimit)

	content := make([]llms.MessageContent, 0, len(history)+2)
	if req.System != "" {
		content = append(content, llms.TextParts(schema.ChatMessageTypeSystem, req.System))
	}
	for _, turn := range history {
		msgType := schema.ChatMessageTypeAI
		if turn.Role == chat.RoleUser {
			msgType = schema.ChatMessageTypeHuman
		}
		content = append(content, llms.TextParts(msgType, turn.Content))
	}
	content = append(content, llms.TextParts(schema.ChatMessageTypeHuman, req.Query))

	resp, err := g.llm.GenerateContent(ctx, content, g.options...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}
