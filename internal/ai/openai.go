package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const defaultOpenAIModel = string(openai.ChatModelGPT4_1Mini)

// OpenAIProvider suggests themes with an OpenAI chat model in JSON mode.
type OpenAIProvider struct {
	usageCounter

	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI provider. Extra request options, such
// as option.WithBaseURL, are passed to the client.
func NewOpenAIProvider(apiKey, model string, opts ...option.RequestOption) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIProvider{
		client: &client,
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.model
}

type openAIChat struct {
	p        *OpenAIProvider
	messages []openai.ChatCompletionMessageParamUnion
}

func (c *openAIChat) send(ctx context.Context) (reply, error) {
	resp, err := c.p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.p.model),
		Messages: c.messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		MaxTokens: openai.Int(300),
	})
	if err != nil {
		return reply{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return reply{}, errors.New("no response from OpenAI")
	}
	return reply{
		text:         resp.Choices[0].Message.Content,
		inputTokens:  int(resp.Usage.PromptTokens),
		outputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

func (c *openAIChat) correct(answer, feedback string) {
	c.messages = append(c.messages, openai.AssistantMessage(answer), openai.UserMessage(feedback))
}

func (p *OpenAIProvider) AnalyzeTheme(ctx context.Context, images [][]byte) (*ThemeAnalysis, error) {
	if len(images) == 0 {
		return nil, errNoImages
	}

	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(images)+1)
	parts = append(parts, openai.TextContentPart(userInstruction))
	for _, img := range images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img),
			Detail: "low",
		}))
	}

	chat := &openAIChat{p: p, messages: []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(themeAnalysisPrompt),
		openai.UserMessage(parts),
	}}
	return negotiateTheme(ctx, chat, &p.usageCounter)
}
