package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Request describes one completion call.
type Request struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int64
	// JSONOnly asks the model for a strict JSON object and cleans the
	// reply (code fences, smart quotes) before returning it.
	JSONOnly bool
}

// Completer is the minimal LLM surface the generator needs. The OpenAI
// client implements it; tests substitute scripted fakes.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client calls the OpenAI chat completions API.
type Client struct {
	api openai.Client
}

// NewClient builds a client. baseURL is optional and allows pointing at
// any OpenAI-compatible endpoint.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key missing; set OPENAI_API_KEY")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{api: openai.NewClient(opts...)}, nil
}

// Complete sends the prompt as a single user message and returns the
// assistant's reply text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.JSONOnly {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty completion")
	}
	if req.JSONOnly {
		content = sanitizeJSON(stripCodeFence(content))
	}
	return content, nil
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\n?(.*?)\\s*```$")

// stripCodeFence removes markdown code fences from LLM responses.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}

// sanitizeJSON replaces Unicode smart quotes and other problematic
// characters that LLMs sometimes produce in JSON output with their
// ASCII equivalents.
func sanitizeJSON(s string) string {
	s = strings.ReplaceAll(s, "“", "\"") // left double quotation mark
	s = strings.ReplaceAll(s, "”", "\"") // right double quotation mark
	s = strings.ReplaceAll(s, "‘", "'")  // left single quotation mark
	s = strings.ReplaceAll(s, "’", "'")  // right single quotation mark
	return s
}
