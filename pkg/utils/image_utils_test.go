package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encode(t *testing.T, format string, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	default:
		t.Fatalf("unknown format %s", format)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"png", "jpeg", "gif", "bmp"} {
		format := format
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			img, got, err := DecodeImage(bytes.NewReader(encode(t, format, 33, 17)), 0)
			require.NoError(t, err)
			require.Equal(t, format, got)
			require.Equal(t, 33, img.Bounds().Dx())
			require.Equal(t, 17, img.Bounds().Dy())
		})
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := DecodeImage(strings.NewReader("definitely not an image"), 0)
	require.Error(t, err)
}

func TestDecodeImageTruncated(t *testing.T) {
	t.Parallel()

	data := encode(t, "png", 64, 64)
	_, _, err := DecodeImage(bytes.NewReader(data[:len(data)/2]), 0)
	require.Error(t, err)
}

func TestDecodeImageSizeLimit(t *testing.T) {
	t.Parallel()

	data := encode(t, "png", 8, 8)

	_, _, err := DecodeImage(bytes.NewReader(data), int64(len(data)-1))
	require.ErrorIs(t, err, ErrTooLarge)

	_, _, err = DecodeImage(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
}

func TestIsAllowedFormat(t *testing.T) {
	t.Parallel()

	allowed := []string{".jpg", ".PNG"}

	tests := []struct {
		filename string
		want     bool
	}{
		{"m31.jpg", true},
		{"M31.JPG", true},
		{"m42.png", true},
		{"m42.gif", false},
		{"noext", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, IsAllowedFormat(tt.filename, allowed), tt.filename)
	}
}

func TestContentType(t *testing.T) {
	t.Parallel()

	require.Equal(t, "image/png", ContentType("a.PNG"))
	require.Equal(t, "image/tiff", ContentType("a.tif"))
	require.Equal(t, "image/webp", ContentType("a.webp"))
	require.Equal(t, "image/jpeg", ContentType("a.jpeg"))
}
