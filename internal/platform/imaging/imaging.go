// Package imaging validates uploaded avatar images and normalises them to
// a fixed-size PNG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// DefaultAvatarSize is the edge length of a normalised avatar in pixels.
const DefaultAvatarSize = 250

// MaxSourceDimension bounds the width and height an upload may declare.
// Decoding allocates for the declared canvas, not the compressed size.
const MaxSourceDimension = 4096

var (
	// ErrUnsupportedType is returned for a filename without a .png, .jpg or .jpeg extension.
	ErrUnsupportedType = errors.New("please upload an image (.png, .jpg or .jpeg)")

	// ErrUndecodable is returned when the bytes are not a PNG or JPEG image.
	ErrUndecodable = errors.New("file is not a valid image")

	// ErrTooLarge is returned when the upload exceeds the configured limit.
	ErrTooLarge = errors.New("file is too large")

	// ErrDimensionsTooLarge is returned when the image declares a canvas
	// wider or taller than MaxSourceDimension.
	ErrDimensionsTooLarge = errors.New("image dimensions are too large")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// CheckFilename rejects filenames whose extension is not an accepted image type.
func CheckFilename(name string) error {
	if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return ErrUnsupportedType
	}
	return nil
}

// NormalizeAvatar decodes a PNG or JPEG image, scales it to size x size
// and re-encodes it as PNG. Aspect ratio is not preserved.
func NormalizeAvatar(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultAvatarSize
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrUndecodable, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUndecodable)
	}
	if cfg.Width > MaxSourceDimension || cfg.Height > MaxSourceDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensionsTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return out.Bytes(), nil
}
