package domain

import (
	"fmt"
	"time"
)

// Dimensions is the pixel size of a decoded image.
type Dimensions struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Line renders the report written by read_image.
func (d Dimensions) Line() string {
	return fmt.Sprintf("Image dimensions: %dx%d", d.Width, d.Height)
}

type Image struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	StoragePath  string    `json:"storage_path"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
