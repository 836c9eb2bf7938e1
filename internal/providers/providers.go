package providers

import (
	"context"
	"errors"
)

// ErrNoImage is returned when the model response carries no image part,
// typically because the model refused the request
var ErrNoImage = errors.New("AI did not return an image. It might have refused the request.")

// Request is a single restoration call: one input image and one instruction
type Request struct {
	Image    []byte
	MIMEType string
	Prompt   string
	Model    string
}

// Result holds the first image returned by the provider and any accompanying text
type Result struct {
	Image    []byte
	MIMEType string
	Text     string
}

// Restorer defines the interface for an image restoration provider
type Restorer interface {
	RestoreImage(ctx context.Context, req Request) (*Result, error)
}

// RestorerFunc adapts a function to the Restorer interface
type RestorerFunc func(ctx context.Context, req Request) (*Result, error)

func (f RestorerFunc) RestoreImage(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
