// Package openai adapts the OpenAI chat-completions API to the lawgraph
// ChatModel interface, including streaming and schema-constrained output.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/lawding/lawgraph"
)

// Model wraps an OpenAI client as a lawgraph.ChatModel.
type Model struct {
	client      *goopenai.Client
	model       string
	temperature float32
}

// Option configures a Model.
type Option func(*Model)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(m *Model) {
		m.temperature = t
	}
}

// WithModel overrides the model name.
func WithModel(name string) Option {
	return func(m *Model) {
		m.model = name
	}
}

// New creates a ChatModel over an existing OpenAI client.
func New(client *goopenai.Client, model string, opts ...Option) *Model {
	m := &Model{
		client:      client,
		model:       model,
		temperature: 0.1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFromToken creates a ChatModel with a fresh client for the API token.
func NewFromToken(token, model string, opts ...Option) *Model {
	return New(goopenai.NewClient(token), model, opts...)
}

// Complete returns the model's answer for the message list.
func (m *Model) Complete(ctx context.Context, messages []lawgraph.Message) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: m.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteStream streams the answer token by token, invoking fn for every
// content delta, and returns the concatenated answer.
func (m *Model) CompleteStream(ctx context.Context, messages []lawgraph.Message, fn func(delta string)) (string, error) {
	stream, err := m.client.CreateChatCompletionStream(ctx, goopenai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: m.temperature,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion stream: %w", err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sb.String(), fmt.Errorf("chat completion stream recv: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		sb.WriteString(delta)
		if fn != nil {
			fn(delta)
		}
	}
	return sb.String(), nil
}

// CompleteStructured requests a response constrained to the JSON schema of out
// and unmarshals the result into it.
func (m *Model) CompleteStructured(ctx context.Context, messages []lawgraph.Message, name string, out any) error {
	schema, err := jsonschema.GenerateSchemaForType(out)
	if err != nil {
		return fmt.Errorf("generate schema %q: %w", name, err)
	}

	resp, err := m.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: m.temperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   name,
				Schema: schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("structured completion %q: %w", name, err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("structured completion %q: empty choices", name)
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("structured completion %q: decode: %w", name, err)
	}
	return nil
}

func toOpenAIMessages(messages []lawgraph.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := msg.Role
		switch role {
		case lawgraph.RoleSystem:
			role = goopenai.ChatMessageRoleSystem
		case lawgraph.RoleAssistant:
			role = goopenai.ChatMessageRoleAssistant
		default:
			role = goopenai.ChatMessageRoleUser
		}
		out = append(out, goopenai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}
