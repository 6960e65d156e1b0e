// Package imagefile checks uploaded crop photos before they are sent upstream.
package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmpty             = errors.New("image is empty")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrCorrupt           = errors.New("image cannot be decoded")
)

// allowedTypes are the upload formats accepted by the uploader
var allowedTypes = []string{"image/jpeg", "image/png"}

// Info describes a validated image
type Info struct {
	MIME   string
	Size   int
	Width  int
	Height int
}

// Validate sniffs the content type and decodes the image header
func Validate(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, ErrEmpty
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return Info{}, fmt.Errorf("%w: %s (accepted: jpg, jpeg, png)", ErrUnsupportedFormat, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return Info{
		MIME:   mt.String(),
		Size:   len(data),
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
