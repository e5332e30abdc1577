package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const jsonRetryFeedback = "JSON parse error: %v. Please fix the JSON and try again." +
	" Remember to escape quotes inside strings with backslash." +
	" Output ONLY valid JSON, no other text."

const maxRetries = 5

const userInstruction = "Suggest a theme for these photos."

var errNoImages = errors.New("no images to analyze")

// reply is one model answer and the tokens it cost.
type reply struct {
	text         string
	inputTokens  int
	outputTokens int
}

// conversation is a provider specific chat history.
type conversation interface {
	// send asks the model for an answer to the history so far.
	send(ctx context.Context) (reply, error)
	// correct appends the model's answer and a user correction.
	correct(answer, feedback string)
}

// negotiateTheme asks until an answer parses as a ThemeAnalysis. Each parse
// failure is fed back to the model, up to maxRetries requests in total.
// Transport errors end the negotiation immediately.
func negotiateTheme(ctx context.Context, c conversation, usage *usageCounter) (*ThemeAnalysis, error) {
	var lastErr error
	var lastAnswer string

	for range maxRetries {
		r, err := c.send(ctx)
		if err != nil {
			return nil, err
		}
		usage.trackUsage(r.inputTokens, r.outputTokens)

		var analysis ThemeAnalysis
		if err := json.Unmarshal([]byte(extractJSON(r.text)), &analysis); err != nil {
			lastErr, lastAnswer = err, r.text
			c.correct(r.text, fmt.Sprintf(jsonRetryFeedback, err))
			continue
		}
		return &analysis, nil
	}

	return nil, fmt.Errorf("failed to parse theme JSON after %d attempts: %w (last response: %s)", maxRetries, lastErr, lastAnswer)
}

// extractJSON returns the first balanced JSON object in content, or content
// itself when it has none.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return content
	}

	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return content[start:]
}

// postJSON posts in as JSON to url and decodes a 200 response into out.
func postJSON(ctx context.Context, client *http.Client, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
