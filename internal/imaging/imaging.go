// Package imaging turns uploaded image files into photos with a renderable preview.
package imaging

import (
	"bytes"
	"encoding/base64"
	"github.com/myrjola/guessthechild/internal/errors"
	"github.com/myrjola/guessthechild/internal/models"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder.
	"image"
	_ "image/gif" // Register GIF decoder.
	"image/jpeg"
	_ "image/png" // Register PNG decoder.
	"log/slog"
	"net/http"
)

// ErrUnsupportedImage is returned when the upload is not a decodable PNG, JPEG, WebP or GIF image.
var ErrUnsupportedImage = errors.NewSentinel("unsupported image")

const (
	// MaxPreviewDimension is the maximum width or height of a preview.
	MaxPreviewDimension = 512
	previewQuality      = 80
	previewMIMEType     = "image/jpeg"
	// MaxPixels bounds the decoded size of an upload. A small, highly compressed file can declare huge
	// dimensions.
	MaxPixels = 40_000_000
)

var supportedMIMETypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// Decode validates that data is a supported image and renders a preview for it.
func Decode(data []byte) (models.Photo, error) {
	mimeType := http.DetectContentType(data)
	if !supportedMIMETypes[mimeType] {
		return models.Photo{}, errors.Wrap(ErrUnsupportedImage, "detect content type",
			slog.String("mime_type", mimeType))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return models.Photo{}, errors.Wrap(ErrUnsupportedImage, "decode image config",
			slog.String("mime_type", mimeType), slog.String("cause", err.Error()))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxPixels/cfg.Height {
		return models.Photo{}, errors.Wrap(ErrUnsupportedImage, "image dimensions out of range",
			slog.Int("width", cfg.Width), slog.Int("height", cfg.Height))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Photo{}, errors.Wrap(ErrUnsupportedImage, "decode image",
			slog.String("mime_type", mimeType), slog.String("cause", err.Error()))
	}

	var preview string
	if preview, err = previewDataURL(img); err != nil {
		return models.Photo{}, errors.Wrap(err, "render preview", slog.String("format", format))
	}

	return models.Photo{
		Data:     data,
		MIMEType: mimeType,
		Preview:  preview,
	}, nil
}

// previewDataURL downscales img to fit within MaxPreviewDimension and encodes it as a JPEG data URL.
func previewDataURL(img image.Image) (string, error) {
	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), MaxPreviewDimension)

	resized := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: previewQuality}); err != nil {
		return "", errors.Wrap(err, "encode jpeg")
	}
	return "data:" + previewMIMEType + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fitWithin scales width and height down to fit within maxDimension, keeping the aspect ratio.
// Images that already fit are returned as is.
func fitWithin(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return max(width, 1), max(height, 1)
	}
	if width >= height {
		return maxDimension, max(height*maxDimension/width, 1)
	}
	return max(width*maxDimension/height, 1), maxDimension
}
