package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider suggests themes with Gemini, constraining the answer to
// themeSchema.
type GeminiProvider struct {
	usageCounter

	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return p.model
}

// themeSchema constrains the model output to a ThemeAnalysis object.
var themeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title": {Type: genai.TypeString},
		"theme": {Type: genai.TypeString},
		"vibe":  {Type: genai.TypeString},
		"color_palette": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"title", "theme", "vibe", "color_palette"},
}

type geminiChat struct {
	p        *GeminiProvider
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (c *geminiChat) send(ctx context.Context) (reply, error) {
	result, err := c.p.client.Models.GenerateContent(ctx, c.p.model, c.contents, c.config)
	if err != nil {
		return reply{}, fmt.Errorf("gemini API error: %w", err)
	}
	text := result.Text()
	if text == "" {
		return reply{}, errors.New("no response from Gemini")
	}

	r := reply{text: text}
	if meta := result.UsageMetadata; meta != nil {
		r.inputTokens = int(meta.PromptTokenCount)
		r.outputTokens = int(meta.CandidatesTokenCount)
	}
	return r, nil
}

func (c *geminiChat) correct(answer, feedback string) {
	c.contents = append(c.contents,
		genai.NewContentFromText(answer, genai.RoleModel),
		genai.NewContentFromText(feedback, genai.RoleUser),
	)
}

func (p *GeminiProvider) AnalyzeTheme(ctx context.Context, images [][]byte) (*ThemeAnalysis, error) {
	if len(images) == 0 {
		return nil, errNoImages
	}

	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img, "image/jpeg"))
	}
	parts = append(parts, genai.NewPartFromText(themeAnalysisPrompt))

	chat := &geminiChat{
		p:        p,
		contents: []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		config: &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   themeSchema,
		},
	}
	return negotiateTheme(ctx, chat, &p.usageCounter)
}
