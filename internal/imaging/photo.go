// Package imaging normalizes uploaded profile photos.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	stddraw "image/draw"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/dtroode/m2m-server/internal/model"
)

const (
	// ProfilePhotoSize is the edge length of a normalized profile photo.
	ProfilePhotoSize = 256
	// MaxUploadBytes bounds the size of an uploaded photo.
	MaxUploadBytes = 5 << 20
	// ContentType is the content type of normalized photos.
	ContentType = "image/png"
)

// NormalizeProfilePhoto center-crops a png, jpeg or webp image to a square,
// scales it to ProfilePhotoSize and re-encodes it as PNG.
func NormalizeProfilePhoto(raw []byte) ([]byte, error) {
	if len(raw) == 0 || len(raw) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: size %d bytes", model.ErrInvalidImage, len(raw))
	}

	mime := http.DetectContentType(raw)
	switch mime {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidImage, mime)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		decoded, webpErr := webp.Decode(bytes.NewReader(raw))
		if webpErr != nil {
			return nil, fmt.Errorf("%w: unable to decode photo", model.ErrInvalidImage)
		}
		img = decoded
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions", model.ErrInvalidImage)
	}

	side := min(width, height)
	cropRect := image.Rect(0, 0, side, side)
	square := image.NewRGBA(cropRect)
	origin := image.Point{X: bounds.Min.X + (width-side)/2, Y: bounds.Min.Y + (height-side)/2}
	stddraw.Draw(square, cropRect, img, origin, stddraw.Src)

	resized := image.NewRGBA(image.Rect(0, 0, ProfilePhotoSize, ProfilePhotoSize))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), square, square.Bounds(), xdraw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, resized); err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}

	return out.Bytes(), nil
}

// DecodeDataURL extracts the bytes of a base64 "data:" URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: not a data URL", model.ErrInvalidImage)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data URL is not base64", model.ErrInvalidImage)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	return raw, nil
}
