package gemini

import (
	"errors"
	"testing"

	legacy "github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/restorer/internal/providers"
	"google.golang.org/genai"
)

func TestFirstImage(t *testing.T) {
	tests := []struct {
		name      string
		resp      *genai.GenerateContentResponse
		wantImage string
		wantErr   bool
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: true,
		},
		{
			name: "text only refusal",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: "I can't help with that."}}},
			}}},
			wantErr: true,
		},
		{
			name: "image after text",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "Here is your photo."},
					{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("first")}},
					{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("second")}},
				}},
			}}},
			wantImage: "first",
		},
		{
			name: "skips empty candidate",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: nil},
				{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte("img")}}}}},
			}},
			wantImage: "img",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := firstImage(tt.resp)
			if tt.wantErr {
				if !errors.Is(err, providers.ErrNoImage) {
					t.Fatalf("Expected ErrNoImage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(result.Image) != tt.wantImage {
				t.Errorf("Expected image %q, got %q", tt.wantImage, result.Image)
			}
		})
	}
}

func TestFirstLegacyImage(t *testing.T) {
	resp := &legacy.GenerateContentResponse{Candidates: []*legacy.Candidate{{
		Content: &legacy.Content{Parts: []legacy.Part{
			legacy.Text("restored"),
			legacy.Blob{MIMEType: "image/png", Data: []byte("png")},
		}},
	}}}

	result, err := firstLegacyImage(resp)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(result.Image) != "png" || result.Text != "restored" {
		t.Errorf("Unexpected result %+v", result)
	}

	_, err = firstLegacyImage(&legacy.GenerateContentResponse{Candidates: []*legacy.Candidate{{
		Content: &legacy.Content{Parts: []legacy.Part{legacy.Text("no")}},
	}}})
	if !errors.Is(err, providers.ErrNoImage) {
		t.Errorf("Expected ErrNoImage, got %v", err)
	}
}
