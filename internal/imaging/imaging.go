// Package imaging normalizes uploaded equipment photos before they are
// stored alongside items.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// maxEdge is the longest allowed side of a stored photo.
const maxEdge = 1024

// jpegQuality is the compression quality for re-encoded photos.
const jpegQuality = 85

// Normalize reads an uploaded photo, validates the format by sniffing the
// bytes, downscales anything larger than maxEdge, and re-encodes as JPEG.
// It returns the encoded bytes and their MIME type.
func Normalize(r io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("reading image data: %w", err)
	}

	// Sniff the real MIME type, the client header is not trusted.
	switch detected := http.DetectContentType(data); detected {
	case "image/jpeg", "image/png":
	default:
		return nil, "", fmt.Errorf("unsupported image format %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	img = fit(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// fit scales the photo down so neither side exceeds maxEdge, preserving the
// aspect ratio. Photos already within bounds pass through untouched.
func fit(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}

	var newW, newH int
	if w > h {
		newW = maxEdge
		newH = max(1, h*maxEdge/w)
	} else {
		newH = maxEdge
		newW = max(1, w*maxEdge/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
