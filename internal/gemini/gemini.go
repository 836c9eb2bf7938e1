package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/restorer/internal/providers"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash-image-preview"

// Client is a restoration provider backed by the Gemini API image models
type Client struct {
	client *genai.Client
	model  string
}

// New returns a Gemini provider. An empty apiKey falls back to GEMINI_API_KEY.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// RestoreImage sends the photo and instruction and returns the first image part of the response
func (c *Client) RestoreImage(ctx context.Context, req providers.Request) (*providers.Result, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Image}},
			{Text: req.Prompt},
		},
	}}

	slog.Debug("Sending restoration request to Gemini", "model", model, "image_bytes", len(req.Image), "mime_type", req.MIMEType)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return firstImage(resp)
}

func firstImage(resp *genai.GenerateContentResponse) (*providers.Result, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned from Gemini: %w", providers.ErrNoImage)
	}

	var text string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &providers.Result{
					Image:    part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
					Text:     text,
				}, nil
			}
			text += part.Text
		}
	}

	if text != "" {
		slog.Warn("Gemini returned text without an image", "text", truncate(text, 200))
	}
	return nil, providers.ErrNoImage
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
