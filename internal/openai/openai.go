package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/restorer/internal/providers"
)

const (
	DefaultModel   = "gpt-image-1"
	DefaultBaseURL = "https://api.openai.com/v1"
)

// OpenAI is a restoration provider using the OpenAI image edit endpoint
type OpenAI struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// New returns a new OpenAI provider. An empty apiKey falls back to OPENAI_API_KEY.
func New(apiKey, model string) *OpenAI {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		Model:      model,
		HTTPClient: &http.Client{},
	}
}

// RestoreImage posts the photo and instruction to /images/edits
func (o *OpenAI) RestoreImage(ctx context.Context, req providers.Request) (*providers.Result, error) {
	if o.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	model := req.Model
	if model == "" {
		model = o.Model
	}

	body, contentType, err := buildEditForm(model, req)
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(o.BaseURL, "/") + "/images/edits"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Data []struct {
			B64JSON       string `json:"b64_json"`
			RevisedPrompt string `json:"revised_prompt"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	for _, item := range response.Data {
		if item.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}
		return &providers.Result{Image: data, MIMEType: "image/png", Text: item.RevisedPrompt}, nil
	}

	return nil, providers.ErrNoImage
}

func buildEditForm(model string, req providers.Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("model", model); err != nil {
		return nil, "", fmt.Errorf("failed to write form field: %w", err)
	}
	if err := w.WriteField("prompt", req.Prompt); err != nil {
		return nil, "", fmt.Errorf("failed to write form field: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="photo`+extension(req.MIMEType)+`"`)
	h.Set("Content-Type", req.MIMEType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(req.Image); err != nil {
		return nil, "", fmt.Errorf("failed to write image part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
