package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

const defaultChatModel = "gpt-4"

type ChatService struct {
	client ports.ChatClient
	model  string
	logger zerolog.Logger
}

func NewChatService(client ports.ChatClient, model string, logger zerolog.Logger) *ChatService {
	if model == "" {
		model = defaultChatModel
	}
	return &ChatService{client: client, model: model, logger: logger}
}

// Ask forwards the conversation to the chat collaborator with the dashboard
// assistant system prompt prepended. One call, one assistant message; a
// service failure surfaces as domain.ErrCollaborator.
func (s *ChatService) Ask(ctx context.Context, username, model string, messages []domain.ChatMessage) (domain.ChatMessage, error) {
	if username == "" {
		username = "Guest"
	}
	if model == "" {
		model = s.model
	}

	prompt := domain.ChatMessage{
		Role: domain.ChatRoleSystem,
		Content: fmt.Sprintf(
			"You are a helpful and friendly sales assistant chatbot for a retail dashboard. "+
				"Explain data clearly, summarize predictions, help with navigation questions, "+
				"and use %s's name to keep it personalized.", username),
	}

	reply, err := s.client.Complete(ctx, model, append([]domain.ChatMessage{prompt}, messages...))
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("chat collaborator failed")
		return domain.ChatMessage{}, fmt.Errorf("%w: %v", domain.ErrCollaborator, err)
	}

	return reply, nil
}
