package imaging

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
)

// CropResult contains a zoomed region of a radiograph.
type CropResult struct {
	// Region is the cropped area in source image coordinates, after padding
	// and clipping.
	Region geometry.Box `json:"region"`

	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// MeanIntensity is the average luminance (0-255) of the unscaled region.
	// Dense structures such as enamel and restorations read bright.
	MeanIntensity float64 `json:"mean_intensity"`
}

// CropTooth extracts the area around a detection box, padded by pad pixels
// and clipped to the image, optionally scaled, and encodes it as PNG.
func CropTooth(img image.Image, box geometry.Box, pad int, scale float64) (*CropResult, error) {
	if !box.Valid() {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	region := box.Expand(pad, img.Bounds())
	if region.Empty() {
		b := img.Bounds()
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			box.X1, box.Y1, box.X2, box.Y2, b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	}

	cropped := imaging.Crop(img, region)
	mean := meanIntensity(cropped)

	if scale != 1.0 && scale > 0 {
		newWidth := max(int(float64(cropped.Bounds().Dx())*scale), 1)
		newHeight := max(int(float64(cropped.Bounds().Dy())*scale), 1)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	data, err := Encode(cropped, FormatPNG, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Region:        geometry.Box{X1: region.Min.X, Y1: region.Min.Y, X2: region.Max.X, Y2: region.Max.Y},
		Width:         cropped.Bounds().Dx(),
		Height:        cropped.Bounds().Dy(),
		ImageBase64:   base64.StdEncoding.EncodeToString(data),
		MimeType:      FormatPNG.MIMEType(),
		MeanIntensity: mean,
	}, nil
}

// meanIntensity averages BT.601 luminance over img.
func meanIntensity(img *image.NRGBA) float64 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}
	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += float64(color.GrayModel.Convert(img.NRGBAAt(x, y)).(color.Gray).Y)
		}
	}
	return sum / float64(n)
}
