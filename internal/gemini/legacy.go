package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	legacy "github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/restorer/internal/providers"
	"google.golang.org/api/option"
)

// Legacy is a restoration provider on the older generative-ai-go SDK.
// The SDK cannot request response modalities, so it relies on image models
// returning image parts by default.
type Legacy struct {
	apiKey string
	model  string
}

func NewLegacy(apiKey, model string) *Legacy {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if model == "" {
		model = DefaultModel
	}
	return &Legacy{apiKey: apiKey, model: model}
}

// RestoreImage sends the photo and instruction through generative-ai-go
func (g *Legacy) RestoreImage(ctx context.Context, req providers.Request) (*providers.Result, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := legacy.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	name := req.Model
	if name == "" {
		name = g.model
	}
	model := client.GenerativeModel(name)

	slog.Debug("Sending restoration request to Gemini (legacy SDK)", "model", name, "image_bytes", len(req.Image))

	resp, err := model.GenerateContent(ctx,
		legacy.Blob{MIMEType: req.MIMEType, Data: req.Image},
		legacy.Text(req.Prompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return firstLegacyImage(resp)
}

func firstLegacyImage(resp *legacy.GenerateContentResponse) (*providers.Result, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned from Gemini: %w", providers.ErrNoImage)
	}

	var text string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			switch p := part.(type) {
			case legacy.Blob:
				if len(p.Data) > 0 {
					return &providers.Result{Image: p.Data, MIMEType: p.MIMEType, Text: text}, nil
				}
			case legacy.Text:
				text += string(p)
			}
		}
	}

	return nil, providers.ErrNoImage
}
