package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultLlamaCppURL   = "http://localhost:8080"
	defaultLlamaCppModel = "llava"
)

// LlamaCppProvider suggests themes through the OpenAI compatible endpoint of
// a llama.cpp server.
type LlamaCppProvider struct {
	usageCounter

	endpoint string
	model    string
	client   *http.Client
}

// NewLlamaCppProvider validates baseURL, which must be an http(s) URL with a
// host.
func NewLlamaCppProvider(baseURL, model string) (*LlamaCppProvider, error) {
	if baseURL == "" {
		baseURL = defaultLlamaCppURL
	}
	if model == "" {
		model = defaultLlamaCppModel
	}
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	switch {
	case err != nil:
		return nil, fmt.Errorf("invalid llama.cpp URL: %w", err)
	case parsed.Scheme != "http" && parsed.Scheme != "https":
		return nil, fmt.Errorf("invalid llama.cpp URL scheme %q: must be http or https", parsed.Scheme)
	case parsed.Host == "":
		return nil, errors.New("invalid llama.cpp URL: missing host")
	}
	return &LlamaCppProvider{
		endpoint: parsed.JoinPath("/v1/chat/completions").String(),
		model:    model,
		client:   &http.Client{},
	}, nil
}

func (p *LlamaCppProvider) Name() string {
	return p.model
}

type llamaCppRequest struct {
	Model       string            `json:"model"`
	Messages    []llamaCppMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
	Stream      bool              `json:"stream"`
}

type llamaCppMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []llamaCppPart
}

type llamaCppPart struct {
	Type     string            `json:"type"`
	Text     string            `json:"text,omitempty"`
	ImageURL *llamaCppImageURL `json:"image_url,omitempty"`
}

type llamaCppImageURL struct {
	URL string `json:"url"`
}

type llamaCppResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type llamaCppChat struct {
	p        *LlamaCppProvider
	messages []llamaCppMessage
}

func (c *llamaCppChat) send(ctx context.Context) (reply, error) {
	req := llamaCppRequest{
		Model:       c.p.model,
		Messages:    c.messages,
		MaxTokens:   300,
		Temperature: 0.1,
	}
	var resp llamaCppResponse
	if err := postJSON(ctx, c.p.client, c.p.endpoint, req, &resp); err != nil {
		return reply{}, fmt.Errorf("llama.cpp API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return reply{}, errors.New("no response from llama.cpp")
	}
	return reply{
		text:         resp.Choices[0].Message.Content,
		inputTokens:  resp.Usage.PromptTokens,
		outputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (c *llamaCppChat) correct(answer, feedback string) {
	c.messages = append(c.messages,
		llamaCppMessage{Role: "assistant", Content: answer},
		llamaCppMessage{Role: "user", Content: feedback},
	)
}

func (p *LlamaCppProvider) AnalyzeTheme(ctx context.Context, images [][]byte) (*ThemeAnalysis, error) {
	if len(images) == 0 {
		return nil, errNoImages
	}

	parts := []llamaCppPart{{Type: "text", Text: userInstruction}}
	for _, img := range images {
		parts = append(parts, llamaCppPart{
			Type:     "image_url",
			ImageURL: &llamaCppImageURL{URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img)},
		})
	}

	chat := &llamaCppChat{p: p, messages: []llamaCppMessage{
		{Role: "system", Content: themeAnalysisPrompt},
		{Role: "user", Content: parts},
	}}
	return negotiateTheme(ctx, chat, &p.usageCounter)
}
