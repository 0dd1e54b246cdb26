package ai

import (
	"context"
	"fmt"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// Request is one text generation call.
type Request struct {
	Task    Task
	System  string
	History []chat.Turn
	Query   string

	// Role and Count carry structured hints for generators that do not read prompts.
	Role  string
	Count int
}

// Generator produces assistant text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// NewGenerator selects the generator configured by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewEinoGenerator(ctx, chatModel, cfg.HistoryLimit)
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg)
	case config.ProviderCanned, "":
		return NewCannedGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// trimHistory keeps the last limit settled turns.
func trimHistory(turns []chat.Turn, limit int) []chat.Turn {
	settled := make([]chat.Turn, 0, len(turns))
	for _, turn := range turns {
		if turn.Provisional {
			continue
		}
		settled = append(settled, turn)
	}
	if limit > 0 && len(settled) > limit {
		settled = settled[len(settled)-limit:]
	}
	return settled
}
