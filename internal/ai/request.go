package ai

import (
	"context"
	"github.com/myrjola/guessthechild/internal/errors"
	"log/slog"
)

var (
	ErrUnsupportedMIMEType = errors.NewSentinel("unsupported MIME type")
	ErrEmptyResponse       = errors.NewSentinel("empty response from captioning service")
)

// Captioner turns a multimodal request into caption text. Implementations talk to an external generative AI
// service and must be safe to call from one goroutine at a time.
type Captioner interface {
	Caption(ctx context.Context, req Request) (string, error)
}

// Request is an ordered list of content parts sent to the model identified by Model.
type Request struct {
	Model string
	Parts []Part
}

// Part is either an inline image (Data and MIMEType set) or a text prompt.
type Part struct {
	Data     []byte
	MIMEType string
	Text     string
}

// IsImage reports whether the part carries inline image data.
func (p Part) IsImage() bool {
	return len(p.Data) > 0
}

var imageMIMETypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// NewImagePart wraps image bytes as a request part. The MIME type must be one the services accept inline.
func NewImagePart(data []byte, mimeType string) (Part, error) {
	if !imageMIMETypes[mimeType] {
		return Part{}, errors.Wrap(ErrUnsupportedMIMEType, "new image part", slog.String("mime_type", mimeType))
	}
	if len(data) == 0 {
		return Part{}, errors.New("new image part: no image data")
	}
	return Part{Data: data, MIMEType: mimeType, Text: ""}, nil
}

// NewTextPart wraps a prompt as a request part.
func NewTextPart(text string) Part {
	return Part{Data: nil, MIMEType: "", Text: text}
}
