// Package inspector decodes an image and reports its pixel dimensions.
//
// Inspect returns failures to the caller. ReadImage is the host entry point:
// it prints "Image dimensions: WxH" on success and terminates through the
// logger's fatal hook on any failure.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/domain"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/pkg/utils"
)

// ErrUnreadable is the only failure an inspection can produce.
var ErrUnreadable = errors.New("image could not be opened or decoded")

type Inspector struct {
	src      Source
	out      io.Writer
	maxBytes int64
	log      *zap.Logger
}

// New returns an Inspector reading through src and reporting to out.
// maxBytes <= 0 disables the size limit.
func New(src Source, out io.Writer, maxBytes int64, log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{
		src:      src,
		out:      out,
		maxBytes: maxBytes,
		log:      log,
	}
}

// Decode decodes r and returns its dimensions. The decoded image is dropped
// before returning.
func Decode(r io.Reader, maxBytes int64) (domain.Dimensions, error) {
	img, format, err := utils.DecodeImage(r, maxBytes)
	if err != nil {
		return domain.Dimensions{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	b := img.Bounds()
	return domain.Dimensions{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
	}, nil
}

func (i *Inspector) Inspect(ctx context.Context, path string) (domain.Dimensions, error) {
	rc, err := i.src.Open(ctx, path)
	if err != nil {
		return domain.Dimensions{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer rc.Close()

	dims, err := Decode(rc, i.maxBytes)
	if err != nil {
		return domain.Dimensions{}, err
	}

	i.log.Debug("Image inspected",
		zap.String("path", path),
		zap.String("format", dims.Format),
		zap.Int("width", dims.Width),
		zap.Int("height", dims.Height))

	return dims, nil
}

// ReadImage writes the dimensions line for path, or logs at fatal level and
// terminates when the image cannot be opened or decoded.
func (i *Inspector) ReadImage(ctx context.Context, path string) {
	dims, err := i.Inspect(ctx, path)
	if err != nil {
		i.log.Fatal("failed to open image file",
			zap.String("path", path),
			zap.Error(err))
		return
	}

	if _, err := fmt.Fprintln(i.out, dims.Line()); err != nil {
		i.log.Fatal("failed to write image dimensions", zap.Error(err))
	}
}
