// Package langchain adapts any github.com/tmc/langchaingo llms.Model to the
// lawgraph ChatModel interface, so deployments already built on langchaingo
// can plug their model in without an extra client.
package langchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/lawding/lawgraph"
)

// Model wraps a langchaingo llms.Model as a lawgraph.ChatModel.
type Model struct {
	llm         llms.Model
	temperature float64
}

// Option configures a Model.
type Option func(*Model)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(m *Model) {
		m.temperature = t
	}
}

// New wraps an existing langchaingo model.
func New(llm llms.Model, opts ...Option) *Model {
	m := &Model{llm: llm, temperature: 0.1}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Complete returns the model's answer for the message list.
func (m *Model) Complete(ctx context.Context, messages []lawgraph.Message) (string, error) {
	resp, err := m.llm.GenerateContent(ctx, toContent(messages),
		llms.WithTemperature(m.temperature))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return firstChoice(resp)
}

// CompleteStream streams the answer through fn and returns the full text.
func (m *Model) CompleteStream(ctx context.Context, messages []lawgraph.Message, fn func(delta string)) (string, error) {
	var sb strings.Builder
	resp, err := m.llm.GenerateContent(ctx, toContent(messages),
		llms.WithTemperature(m.temperature),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			sb.Write(chunk)
			if fn != nil {
				fn(string(chunk))
			}
			return nil
		}))
	if err != nil {
		return sb.String(), fmt.Errorf("generate content stream: %w", err)
	}
	// Some providers deliver the final text only in the response, not via
	// the streaming callback.
	if sb.Len() == 0 {
		text, err := firstChoice(resp)
		if err != nil {
			return "", err
		}
		if fn != nil && text != "" {
			fn(text)
		}
		return text, nil
	}
	return sb.String(), nil
}

// CompleteStructured requests a JSON response and unmarshals it into out.
// langchaingo has no portable schema constraint, so the call relies on JSON
// mode plus the schema instructions embedded in the prompt.
func (m *Model) CompleteStructured(ctx context.Context, messages []lawgraph.Message, name string, out any) error {
	resp, err := m.llm.GenerateContent(ctx, toContent(messages),
		llms.WithTemperature(m.temperature),
		llms.WithJSONMode())
	if err != nil {
		return fmt.Errorf("structured completion %q: %w", name, err)
	}
	text, err := firstChoice(resp)
	if err != nil {
		return fmt.Errorf("structured completion %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(stripFence(text)), out); err != nil {
		return fmt.Errorf("structured completion %q: decode: %w", name, err)
	}
	return nil
}

func toContent(messages []lawgraph.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case lawgraph.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case lawgraph.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		out = append(out, llms.TextParts(role, msg.Content))
	}
	return out
}

func firstChoice(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("empty response")
	}
	return resp.Choices[0].Content, nil
}

// stripFence removes a markdown code fence some models wrap JSON output in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
