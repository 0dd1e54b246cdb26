package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// EinoGenerator runs requests through an eino template + chat model chain.
type EinoGenerator struct {
	chain        compose.Runnable[map[string]any, *schema.Message]
	historyLimit int
}

// NewEinoGenerator compiles the chain around chatModel.
func NewEinoGenerator(ctx context.Context, chatModel model.ChatModel, historyLimit int) (*EinoGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &EinoGenerator{chain: runnable, historyLimit: historyLimit}, nil
}

// Generate implements Generator.
func (g *EinoGenerator) Generate(ctx context.Context, req Request) (string, error) {
	input := map[string]any{
		"system":  req.System,
		"history": buildHistoryMessages(trimHistory(req.History, g.historyLimit)),
		"query":   req.Query,
	}

	response, err := g.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	return response.Content, nil
}

func buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return history
}
