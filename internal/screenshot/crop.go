package screenshot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// PNGCropper crops PNG data URLs on the host. It satisfies Cropper for
// deployments where the browser ships the full capture and asks the host to
// cut out the selected area.
type PNGCropper struct{}

// Crop decodes the data URL, cuts out area, and re-encodes the result as a
// PNG data URL. The area is clamped to the image bounds.
func (PNGCropper) Crop(imageData string, area Rect) (string, error) {
	data, err := DecodeDataURL(imageData)
	if err != nil {
		return "", err
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := image.Rect(area.X, area.Y, area.X+area.Width, area.Y+area.Height)
	bounds = bounds.Intersect(img.Bounds())
	if bounds.Empty() {
		return "", fmt.Errorf("crop area is outside the image")
	}

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return "", fmt.Errorf("failed to encode crop: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
