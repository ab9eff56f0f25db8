package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are an assistant for a construction project management team. " +
	"Draft concise, professional email replies on behalf of the project manager. " +
	"Use the thread history for context. Respond with the reply body only, " +
	"no subject line and no commentary."

// completionClient is the subset of the OpenAI client the assistant uses.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Assistant produces suggested reply drafts for inbox threads.
type Assistant struct {
	client      completionClient
	model       string
	temperature float32
	logger      zerolog.Logger
}

// NewAssistant creates an assistant backed by the OpenAI API.
func NewAssistant(apiKey, model string, logger zerolog.Logger) *Assistant {
	return &Assistant{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: 0.3,
		logger:      logger,
	}
}

// ThreadMessage is one message of the conversation being replied to, oldest
// first.
type ThreadMessage struct {
	From string
	Body string
}

// DraftRequest describes the reply the user wants drafted.
type DraftRequest struct {
	Subject string
	Thread  []ThreadMessage
	// Instructions is the user's free-form guidance, e.g. "decline politely
	// and propose next Tuesday".
	Instructions string
}

// DraftReply asks the model for a suggested reply body.
func (a *Assistant) DraftReply(ctx context.Context, req DraftRequest) (string, error) {
	if len(req.Thread) == 0 {
		return "", fmt.Errorf("thread is empty")
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: a.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		a.logger.Error().Err(err).Str("subject", req.Subject).Msg("draft assist failed")
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	draft := strings.TrimSpace(resp.Choices[0].Message.Content)
	a.logger.Debug().
		Str("subject", req.Subject).
		Int("thread_len", len(req.Thread)).
		Msg("draft assist completed")
	return draft, nil
}

// buildPrompt renders the thread and instructions into a single user prompt.
func buildPrompt(req DraftRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n\nThread (oldest first):\n", req.Subject)
	for _, m := range req.Thread {
		fmt.Fprintf(&b, "--- From: %s ---\n%s\n", m.From, strings.TrimSpace(m.Body))
	}
	if req.Instructions != "" {
		fmt.Fprintf(&b, "\nInstructions from the user: %s\n", req.Instructions)
	}
	b.WriteString("\nDraft the reply body now.")
	return b.String()
}
