package compare

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

const dividerWidth = 4

// Render composites the comparison view: the restored image on [0, position%)
// of the width and the original elsewhere, with a divider at the split. The
// restored image is scaled to fit the original's bounds.
func Render(original, restored image.Image, position float64) *image.RGBA {
	ob := original.Bounds()
	w, h := ob.Dx(), ob.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), original, ob.Min, draw.Src)

	if restored == nil || w == 0 || h == 0 {
		return dst
	}

	fitted := fit(restored, w, h)
	split := int(math.Round(float64(w) * Clamp(position) / 100))
	draw.Draw(dst, image.Rect(0, 0, split, h), fitted, image.Point{}, draw.Over)

	x0 := split - dividerWidth/2
	if x0 < 0 {
		x0 = 0
	}
	x1 := x0 + dividerWidth
	if x1 > w {
		x1 = w
		x0 = max(0, w-dividerWidth)
	}
	draw.Draw(dst, image.Rect(x0, 0, x1, h), image.NewUniform(color.RGBA{255, 255, 255, 204}), image.Point{}, draw.Over)

	return dst
}

// fit scales src into a w×h canvas preserving aspect ratio, centred on a
// transparent background (object-fit: contain)
func fit(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return dst
	}

	scale := math.Min(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	nw := int(float64(sb.Dx()) * scale)
	nh := int(float64(sb.Dy()) * scale)
	xOff := (w - nw) / 2
	yOff := (h - nh) / 2

	// nearest neighbour
	for y := 0; y < nh; y++ {
		sy := sb.Min.Y + min(sb.Dy()-1, int(float64(y)/scale))
		for x := 0; x < nw; x++ {
			sx := sb.Min.X + min(sb.Dx()-1, int(float64(x)/scale))
			dst.Set(x+xOff, y+yOff, src.At(sx, sy))
		}
	}
	return dst
}

// Decode reads a PNG, JPEG, GIF or WebP image
func Decode(data []byte, mimeType string) (image.Image, error) {
	if mimeType == "image/webp" {
		img, err := webp.Decode(bytes.NewReader(data), &decoder.Options{})
		if err != nil {
			return nil, fmt.Errorf("failed to decode webp: %w", err)
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Encode writes img as "png" (default) or "webp"
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "", "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
		return nil
	case "webp":
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, 90)
		if err != nil {
			return fmt.Errorf("failed to create WebP encoder options: %w", err)
		}
		if err := webp.Encode(w, img, options); err != nil {
			return fmt.Errorf("failed to encode WebP: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ContentType returns the MIME type for an Encode format
func ContentType(format string) string {
	if format == "webp" {
		return "image/webp"
	}
	return "image/png"
}
