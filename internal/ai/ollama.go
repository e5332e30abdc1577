package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2-vision:11b"
)

// OllamaProvider suggests themes with a vision model served by Ollama.
type OllamaProvider struct {
	usageCounter

	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (p *OllamaProvider) Name() string {
	return p.model
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"` // base64, no data: prefix
}

type ollamaOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	PromptEvalCount int `json:"prompt_eval_count"`
	EvalCount       int `json:"eval_count"`
}

// ollamaChat is a conversation against the /api/chat endpoint.
type ollamaChat struct {
	p        *OllamaProvider
	messages []ollamaMessage
}

func (c *ollamaChat) send(ctx context.Context) (reply, error) {
	req := ollamaRequest{
		Model:    c.p.model,
		Messages: c.messages,
		Format:   "json",
		Options:  ollamaOptions{NumPredict: 300},
	}
	var resp ollamaResponse
	if err := postJSON(ctx, c.p.client, c.p.baseURL+"/api/chat", req, &resp); err != nil {
		return reply{}, fmt.Errorf("ollama API error: %w", err)
	}
	return reply{
		text:         resp.Message.Content,
		inputTokens:  resp.PromptEvalCount,
		outputTokens: resp.EvalCount,
	}, nil
}

func (c *ollamaChat) correct(answer, feedback string) {
	c.messages = append(c.messages,
		ollamaMessage{Role: "assistant", Content: answer},
		ollamaMessage{Role: "user", Content: feedback},
	)
}

func (p *OllamaProvider) AnalyzeTheme(ctx context.Context, images [][]byte) (*ThemeAnalysis, error) {
	if len(images) == 0 {
		return nil, errNoImages
	}

	encoded := make([]string, len(images))
	for i, img := range images {
		encoded[i] = base64.StdEncoding.EncodeToString(img)
	}

	chat := &ollamaChat{p: p, messages: []ollamaMessage{
		{Role: "system", Content: themeAnalysisPrompt},
		{Role: "user", Content: userInstruction, Images: encoded},
	}}
	return negotiateTheme(ctx, chat, &p.usageCounter)
}
