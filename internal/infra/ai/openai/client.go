package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/automaton-triage/internal/domain/ai"
	"github.com/bryanwahyu/automaton-triage/internal/domain/code"
	"github.com/bryanwahyu/automaton-triage/internal/domain/sentry"
	"github.com/bryanwahyu/automaton-triage/internal/domain/triage"
	"github.com/bryanwahyu/automaton-triage/internal/infra/ai/prompt"
)

const maxTokens = 2048

type Client struct {
	*openai.Client
	Model   string
	Timeout time.Duration
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model, Timeout: timeout}
}

// Triage runs the quick severity assessment call.
func (c *Client) Triage(ctx context.Context, issue sentry.Issue) (triage.Result, error) {
	raw, err := c.complete(ctx, prompt.GetTriageSystemPrompt(), prompt.GetTriageUserPrompt(issue))
	if err != nil {
		return triage.Result{}, err
	}
	return triage.DecodeResult(raw)
}

// Diagnose runs the root cause analysis call.
func (c *Client) Diagnose(ctx context.Context, issue sentry.Issue, snippets []code.Snippet) (triage.Analysis, error) {
	raw, err := c.complete(ctx, prompt.GetAnalysisSystemPrompt(), prompt.GetAnalysisUserPrompt(issue, snippets))
	if err != nil {
		return triage.Analysis{}, err
	}
	return triage.DecodeAnalysis(raw)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	model := c.Model
	if model == "" {
		model = "gpt-4.1"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
