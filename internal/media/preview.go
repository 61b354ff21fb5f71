package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

const MaxUploadBytes = 10 << 20

var (
	ErrTooLarge = errors.New("image exceeds 10 MB")
	ErrNotImage = errors.New("file is not a supported image")
)

type Thumbnail struct {
	Width  int
	Height int
	JPEG   []byte
}

// Preview decodes an uploaded image and returns a JPEG thumbnail at most
// maxWidth wide, keeping the aspect ratio.
func Preview(r io.Reader, maxWidth int) (Thumbnail, error) {
	if maxWidth <= 0 {
		maxWidth = 300
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Thumbnail{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return Thumbnail{}, ErrTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Thumbnail{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	var thumb image.Image = img
	if img.Bounds().Dx() > maxWidth {
		thumb = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return Thumbnail{}, fmt.Errorf("encode thumbnail: %w", err)
	}
	b := thumb.Bounds()
	return Thumbnail{Width: b.Dx(), Height: b.Dy(), JPEG: buf.Bytes()}, nil
}
