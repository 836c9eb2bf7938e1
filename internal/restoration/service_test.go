package restoration

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/restorer/internal/config"
	"github.com/lehigh-university-libraries/restorer/internal/models"
	"github.com/lehigh-university-libraries/restorer/internal/providers"
)

func TestRestore(t *testing.T) {
	var got providers.Request
	stub := providers.RestorerFunc(func(ctx context.Context, req providers.Request) (*providers.Result, error) {
		got = req
		return &providers.Result{Image: []byte("restored"), MIMEType: "image/png"}, nil
	})

	svc := NewService(stub, WithModel("test-model"), WithRateLimit(0))
	prefs := models.DefaultPreferences()
	prefs.Ethnicity = models.EthnicityAsian

	out, err := svc.Restore(context.Background(), base64.StdEncoding.EncodeToString([]byte("photo")), "image/jpeg", models.Colorize, prefs)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if out != base64.StdEncoding.EncodeToString([]byte("restored")) {
		t.Errorf("Unexpected output %s", out)
	}
	if string(got.Image) != "photo" || got.MIMEType != "image/jpeg" || got.Model != "test-model" {
		t.Errorf("Unexpected request %+v", got)
	}
	if !strings.Contains(got.Prompt, "'Black & White to Color' method") || !strings.Contains(got.Prompt, "ethnicity is identified as Asian") {
		t.Errorf("Prompt not built from settings:\n%s", got.Prompt)
	}
}

func TestRestoreSurfacesNoImage(t *testing.T) {
	stub := providers.RestorerFunc(func(ctx context.Context, req providers.Request) (*providers.Result, error) {
		return nil, providers.ErrNoImage
	})

	_, err := NewService(stub).Restore(context.Background(), "cGhvdG8=", "image/png", models.QuickRestore, models.DefaultPreferences())
	if !errors.Is(err, providers.ErrNoImage) {
		t.Fatalf("Expected ErrNoImage, got %v", err)
	}
	if !strings.Contains(err.Error(), providers.ErrNoImage.Error()) {
		t.Errorf("Expected message to include %q, got %q", providers.ErrNoImage, err)
	}
}

func TestRestoreBadPayload(t *testing.T) {
	called := false
	stub := providers.RestorerFunc(func(ctx context.Context, req providers.Request) (*providers.Result, error) {
		called = true
		return nil, nil
	})

	if _, err := NewService(stub).Restore(context.Background(), "%%%", "image/png", models.QuickRestore, models.DefaultPreferences()); err == nil {
		t.Error("Expected error for invalid base64")
	}
	if called {
		t.Error("Provider should not be called with an undecodable payload")
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{name: "openai", cfg: config.Config{Provider: "openai", OpenAIAPIKey: "k"}},
		{name: "legacy gemini", cfg: config.Config{Provider: "gemini-legacy", GeminiAPIKey: "k"}},
		{name: "unknown", cfg: config.Config{Provider: "ollama"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), &tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
