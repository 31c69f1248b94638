// ABOUTME: OpenAI-compatible chat completion source pointed at Groq
// ABOUTME: One backup-model retry on primary failure, sanitized replies

package content

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/2389/agora/internal/config"
)

// GroqSource calls an OpenAI-compatible chat completions endpoint. On a
// primary-model failure it substitutes exactly one request against the
// backup model before reporting the turn as failed.
type GroqSource struct {
	client      *openai.Client
	model       string
	backupModel string
	temperature float32
	maxTokens   int
	maxWords    int
	logger      *slog.Logger
}

// NewGroqSource builds a source from content configuration. Pass nil
// logger for default.
func NewGroqSource(cfg config.ContentConfig, logger *slog.Logger) *GroqSource {
	if logger == nil {
		logger = slog.Default()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &GroqSource{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		backupModel: cfg.BackupModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxWords:    cfg.MaxWords,
		logger:      logger.With("component", "content"),
	}
}

// Generate requests one utterance, retrying once on the backup model.
func (s *GroqSource) Generate(ctx context.Context, req Request) (string, error) {
	text, err := s.complete(ctx, s.model, req)
	if err != nil {
		s.logger.Warn("primary model failed, trying backup",
			"model", s.model,
			"backup", s.backupModel,
			"error", err)

		text, err = s.complete(ctx, s.backupModel, req)
		if err != nil {
			return "", fmt.Errorf("content generation failed on primary and backup: %w", err)
		}
	}

	return Sanitize(text, s.maxWords), nil
}

func (s *GroqSource) complete(ctx context.Context, model string, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.System,
	})

	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, ex := range history {
		role := openai.ChatMessageRoleUser
		if ex.Self {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: ex.Text,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Instruction,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion (%s): empty response", model)
	}

	return resp.Choices[0].Message.Content, nil
}
