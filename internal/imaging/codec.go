package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	"golang.org/x/image/webp"
)

// Format is an output encoding for annotated images.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// ParseFormat accepts a format name or common file extension, in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", s)
	}
}

// MIMEType returns the media type for f.
func (f Format) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// Extension returns the conventional file extension for f, without a dot.
func (f Format) Extension() string {
	switch f {
	case FormatPNG:
		return "png"
	default:
		return "jpg"
	}
}

// Decode decodes an image held in memory and reports its format name
// ("jpeg", "png", "webp", ...). JPEG EXIF orientation is applied.
//
// WebP is accepted as input only. Its decoder is registered for sniffing;
// if sniffing rejects the data, a direct WebP decode is attempted before
// giving up.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("failed to decode image: empty input")
	}

	_, format, cfgErr := image.DecodeConfig(bytes.NewReader(data))
	if cfgErr == nil {
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err == nil {
			return img, format, nil
		}
		cfgErr = err
	}

	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, "webp", nil
	}
	return nil, "", fmt.Errorf("failed to decode image: %w", cfgErr)
}

// Encode encodes img in the given format. quality applies to JPEG (1-100);
// PNG ignores it.
func Encode(img image.Image, format Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case FormatJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return buf.Bytes(), nil
}
