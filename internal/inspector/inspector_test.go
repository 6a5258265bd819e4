package inspector

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// panicLogger turns Fatal into a panic so termination can be asserted.
func panicLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core, zap.WithFatalHook(zapcore.WriteThenPanic)), logs
}

func TestReadImage(t *testing.T) {
	t.Parallel()

	path := writePNG(t, t.TempDir(), "photo.png", 640, 480)

	var out bytes.Buffer
	log, _ := panicLogger()
	New(NewFileSource(""), &out, 0, log).ReadImage(context.Background(), path)

	require.Equal(t, "Image dimensions: 640x480\n", out.String())
}

func TestReadImageIsRepeatable(t *testing.T) {
	t.Parallel()

	path := writePNG(t, t.TempDir(), "m51.png", 3, 7)

	var out bytes.Buffer
	insp := New(NewFileSource(""), &out, 0, nil)
	insp.ReadImage(context.Background(), path)
	insp.ReadImage(context.Background(), path)

	require.Equal(t, "Image dimensions: 3x7\nImage dimensions: 3x7\n", out.String())
}

func TestReadImageTerminatesOnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	garbage := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "missing.png")},
		{name: "undecodable", path: garbage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			log, logs := panicLogger()
			insp := New(NewFileSource(""), &out, 0, log)

			require.Panics(t, func() {
				insp.ReadImage(context.Background(), tt.path)
			})
			require.Empty(t, out.String())

			fatal := logs.FilterLevelExact(zapcore.FatalLevel).All()
			require.Len(t, fatal, 1)
			require.Equal(t, tt.path, fatal[0].ContextMap()["path"])
		})
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "frame.png", 12, 34)

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 5, 9))
	require.NoError(t, bmp.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame.bmp"), buf.Bytes(), 0o644))

	insp := New(NewFileSource(dir), io.Discard, 0, nil)

	dims, err := insp.Inspect(context.Background(), "frame.png")
	require.NoError(t, err)
	require.Equal(t, 12, dims.Width)
	require.Equal(t, 34, dims.Height)
	require.Equal(t, "png", dims.Format)

	dims, err = insp.Inspect(context.Background(), "frame.bmp")
	require.NoError(t, err)
	require.Equal(t, 5, dims.Width)
	require.Equal(t, 9, dims.Height)
	require.Equal(t, "bmp", dims.Format)
}

func TestInspectErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "big.png", 100, 100)

	tests := []struct {
		name     string
		path     string
		maxBytes int64
	}{
		{name: "missing file", path: "nope.png"},
		{name: "directory", path: "."},
		{name: "size limit", path: "big.png", maxBytes: 16},
		{name: "s3 disabled", path: "s3://images/big.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			insp := New(NewSource(dir, nil), io.Discard, tt.maxBytes, nil)
			_, err := insp.Inspect(context.Background(), tt.path)
			require.ErrorIs(t, err, ErrUnreadable)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 1))))

	dims, err := Decode(&buf, 0)
	require.NoError(t, err)
	require.Equal(t, "Image dimensions: 2x1", dims.Line())

	_, err = Decode(strings.NewReader(""), 0)
	require.True(t, errors.Is(err, ErrUnreadable))
}
