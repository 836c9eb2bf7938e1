package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photos/grandpa.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("\xff\xd8\xff jpeg bytes"))
		case "/sniff":
			_, _ = w.Write([]byte("\x89PNG\r\n\x1a\n png bytes"))
		case "/big.png":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(32)

	tests := []struct {
		name     string
		url      string
		wantName string
		wantMIME string
		wantErr  bool
		tooLarge bool
	}{
		{name: "named jpeg", url: srv.URL + "/photos/grandpa.jpg", wantName: "grandpa.jpg", wantMIME: "image/jpeg"},
		{name: "sniffed png", url: srv.URL + "/sniff", wantName: "sniff", wantMIME: "image/png"},
		{name: "not found", url: srv.URL + "/missing.jpg", wantErr: true},
		{name: "too large", url: srv.URL + "/big.png", wantErr: true, tooLarge: true},
		{name: "bad scheme", url: "file:///etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := f.Fetch(context.Background(), tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.tooLarge && !errors.Is(err, ErrTooLarge) {
					t.Errorf("err = %v, want ErrTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if img.Name != tt.wantName {
				t.Errorf("name = %q, want %q", img.Name, tt.wantName)
			}
			if img.MIMEType != tt.wantMIME {
				t.Errorf("mime = %q, want %q", img.MIMEType, tt.wantMIME)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	for s, want := range map[string]bool{
		"https://example.com/a.jpg": true,
		"http://example.com/a.jpg":  true,
		"photos/a.jpg":              false,
		"/abs/a.jpg":                false,
	} {
		if got := IsURL(s); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", s, got, want)
		}
	}
}
