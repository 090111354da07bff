// Package gemini adapts the Google Gemini API to the finagent
// Generator interface.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when no model name is given.
const DefaultModel = "gemini-2.5-flash"

// Client sends prompts to a Gemini model.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini-backed generator. The API key is read from
// the environment (GEMINI_API_KEY or GOOGLE_API_KEY). An empty model
// name selects DefaultModel.
func NewClient(ctx context.Context, model string) (*Client, error) {
	c, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: c, model: model}, nil
}

// Generate sends one prompt and returns the text response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from %s", c.model)
	}
	return resp.Text(), nil
}

// GenerateJSON sends one prompt constrained to a JSON response, for
// structured outputs like analysis plans.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from %s", c.model)
	}
	return resp.Text(), nil
}
