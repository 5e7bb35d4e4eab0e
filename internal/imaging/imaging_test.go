package imaging

import (
	"bytes"
	"encoding/base64"
	"github.com/stretchr/testify/require"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff}) //nolint:gosec // test pattern
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// encodeBlankPNG compresses to a few hundred kilobytes whatever the dimensions.
func encodeBlankPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression} //nolint:exhaustruct // no buffer pool needed
	require.NoError(t, encoder.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func decodePreview(t *testing.T, preview string) image.Config {
	t.Helper()
	prefix := "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(preview, prefix), "preview is not a JPEG data URL")
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(preview, prefix))
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	return cfg
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{name: "small image keeps its size", width: 40, height: 30, wantWidth: 40, wantHeight: 30},
		{name: "landscape is downscaled", width: 1024, height: 512, wantWidth: 512, wantHeight: 256},
		{name: "portrait is downscaled", width: 600, height: 1200, wantWidth: 256, wantHeight: 512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodePNG(t, tt.width, tt.height)
			photo, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, "image/png", photo.MIMEType)
			require.Equal(t, data, photo.Data)
			cfg := decodePreview(t, photo.Preview)
			require.Equal(t, tt.wantWidth, cfg.Width)
			require.Equal(t, tt.wantHeight, cfg.Height)
		})
	}
}

func TestDecode_rejectsUnsupported(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "text", data: []byte("definitely not an image")},
		{name: "truncated png", data: encodePNG(t, 8, 8)[:40]},
		{name: "too many pixels", data: encodeBlankPNG(t, 12000, 12000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.ErrorIs(t, err, ErrUnsupportedImage)
		})
	}
}

func TestDecode_pixelLimit(t *testing.T) {
	// Exactly at the limit is accepted.
	_, err := Decode(encodeBlankPNG(t, 8000, 5000))
	require.NoError(t, err)

	_, err = Decode(encodeBlankPNG(t, 8000, 5001))
	require.ErrorIs(t, err, ErrUnsupportedImage)
}

func Test_fitWithin(t *testing.T) {
	w, h := fitWithin(5000, 1, MaxPreviewDimension)
	require.Equal(t, MaxPreviewDimension, w)
	require.Equal(t, 1, h, "height must never collapse to zero")
}
