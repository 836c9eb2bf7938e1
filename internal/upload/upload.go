package upload

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Image is an uploaded photo held in memory for one session
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// FromBytes wraps raw file contents. An empty MIME type is sniffed from the data.
func FromBytes(name, mimeType string, data []byte) Image {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	// DetectContentType may append parameters such as "; charset=utf-8"
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if name != "" {
		name = filepath.Base(name)
	}
	return Image{
		Name:     name,
		MIMEType: mimeType,
		Data:     data,
	}
}

// FromMultipart reads a file part from a multipart form
func FromMultipart(file multipart.File, header *multipart.FileHeader) (Image, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read file contents: %w", err)
	}
	return FromBytes(header.Filename, header.Header.Get("Content-Type"), data), nil
}

// FromFile reads an image from disk
func FromFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	return FromBytes(path, mimeFromExt(path), data), nil
}

// Base64 returns the raw payload sent to the restoration service
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns a renderable encoding of the whole file
func (i Image) DataURL() string {
	return DataURL(i.MIMEType, i.Base64())
}

func (i Image) Empty() bool {
	return len(i.Data) == 0
}

func DataURL(mimeType, payload string) string {
	return "data:" + mimeType + ";base64," + payload
}

func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return ""
}
