package ai

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

type fakeCompletionClient struct {
	gotReq  openai.ChatCompletionRequest
	content string
	err     error
}

func (f *fakeCompletionClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestDraftReply(t *testing.T) {
	fake := &fakeCompletionClient{content: "  Thanks, we will review the change order by Friday.  "}
	a := &Assistant{client: fake, model: "gpt-4o-mini", logger: zerolog.Nop()}

	draft, err := a.DraftReply(context.Background(), DraftRequest{
		Subject: "CO-014 review",
		Thread: []ThreadMessage{
			{From: "sub@example.com", Body: "Please review change order 14."},
		},
		Instructions: "confirm by Friday",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft != "Thanks, we will review the change order by Friday." {
		t.Errorf("expected trimmed draft, got %q", draft)
	}
	if fake.gotReq.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model %q", fake.gotReq.Model)
	}
	if len(fake.gotReq.Messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(fake.gotReq.Messages))
	}
	user := fake.gotReq.Messages[1].Content
	if !strings.Contains(user, "CO-014 review") {
		t.Errorf("prompt missing subject: %q", user)
	}
	if !strings.Contains(user, "confirm by Friday") {
		t.Errorf("prompt missing instructions: %q", user)
	}
}

func TestDraftReply_EmptyThread(t *testing.T) {
	a := &Assistant{client: &fakeCompletionClient{}, model: "m", logger: zerolog.Nop()}
	if _, err := a.DraftReply(context.Background(), DraftRequest{Subject: "x"}); err == nil {
		t.Fatal("expected error for empty thread")
	}
}

func TestDraftReply_APIError(t *testing.T) {
	a := &Assistant{
		client: &fakeCompletionClient{err: fmt.Errorf("rate limited")},
		model:  "m",
		logger: zerolog.Nop(),
	}
	_, err := a.DraftReply(context.Background(), DraftRequest{
		Subject: "x",
		Thread:  []ThreadMessage{{From: "a", Body: "b"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildPrompt_ThreadOrder(t *testing.T) {
	prompt := buildPrompt(DraftRequest{
		Subject: "s",
		Thread: []ThreadMessage{
			{From: "first@x.y", Body: "one"},
			{From: "second@x.y", Body: "two"},
		},
	})
	if strings.Index(prompt, "first@x.y") > strings.Index(prompt, "second@x.y") {
		t.Error("expected thread rendered oldest first")
	}
}
