package restoration

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/restorer/internal/config"
	"github.com/lehigh-university-libraries/restorer/internal/gemini"
	"github.com/lehigh-university-libraries/restorer/internal/models"
	"github.com/lehigh-university-libraries/restorer/internal/openai"
	"github.com/lehigh-university-libraries/restorer/internal/prompt"
	"github.com/lehigh-university-libraries/restorer/internal/providers"
	"golang.org/x/time/rate"
)

// Service turns a photo plus restoration settings into a restored image
type Service struct {
	provider providers.Restorer
	model    string
	limiter  *rate.Limiter
}

type Option func(*Service)

// WithRateLimit bounds outbound requests to perMinute; callers wait for a token
func WithRateLimit(perMinute int) Option {
	return func(s *Service) {
		if perMinute <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// WithModel overrides the provider's default model
func WithModel(model string) Option {
	return func(s *Service) {
		s.model = model
	}
}

func NewService(provider providers.Restorer, opts ...Option) *Service {
	s := &Service{provider: provider}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewProvider returns the restorer for the configured provider name
func NewProvider(ctx context.Context, cfg *config.Config) (providers.Restorer, error) {
	switch cfg.Provider {
	case "gemini", "":
		return gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "gemini-legacy":
		return gemini.NewLegacy(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// FromConfig builds a Service with the configured provider and rate limit
func FromConfig(ctx context.Context, cfg *config.Config) (*Service, error) {
	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("Restoration provider ready", "provider", cfg.Provider, "rate_per_minute", cfg.RestoreRatePerMinute)
	return NewService(provider, WithRateLimit(cfg.RestoreRatePerMinute)), nil
}

// Restore builds the prompt, sends the image and returns the restored image as base64.
// Provider failures, including providers.ErrNoImage, are returned wrapped but unchanged.
func (s *Service) Restore(ctx context.Context, imageBase64, mimeType string, option models.RestorationOption, prefs models.Preferences) (string, error) {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	instruction := prompt.Build(option, prefs)
	start := time.Now()

	result, err := s.provider.RestoreImage(ctx, providers.Request{
		Image:    data,
		MIMEType: mimeType,
		Prompt:   instruction,
		Model:    s.model,
	})
	if err != nil {
		return "", fmt.Errorf("restoration failed: %w", err)
	}

	slog.Info("Photo restored", "option", option, "input_bytes", len(data), "output_bytes", len(result.Image), "duration", time.Since(start))

	return base64.StdEncoding.EncodeToString(result.Image), nil
}
