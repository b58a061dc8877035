package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// MaxDimension is the maximum width or height for stored JPEG and PNG images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for re-encoded JPEGs.
const JPEGQuality = 85

// MaxUploadSize bounds how much image data is read.
const MaxUploadSize = 5 << 20

// ProcessResult contains the prepared image data.
type ProcessResult struct {
	Data []byte
	MIME string
}

// Prepare reads image data and checks by sniffing bytes that it really is
// of type wantMIME. JPEG and PNG images larger than MaxDimension are
// downscaled and re-encoded in their own format; GIF and WebP are only
// validated, since re-encoding would drop animation.
func Prepare(r io.Reader, wantMIME string) (*ProcessResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("image larger than %d bytes", MaxUploadSize)
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	if detected != wantMIME {
		return nil, fmt.Errorf("image content is %s, expected %s", detected, wantMIME)
	}

	switch detected {
	case "image/gif":
		if _, err := gif.DecodeConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("decoding GIF: %w", err)
		}
		return &ProcessResult{Data: data, MIME: detected}, nil
	case "image/webp":
		if _, err := webp.DecodeConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("decoding WebP: %w", err)
		}
		return &ProcessResult{Data: data, MIME: detected}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	scaled := downscale(img, MaxDimension)
	if scaled == img {
		return &ProcessResult{Data: data, MIME: detected}, nil
	}

	var buf bytes.Buffer
	if detected == "image/png" {
		err = png.Encode(&buf, scaled)
	} else {
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", detected, err)
	}

	return &ProcessResult{Data: buf.Bytes(), MIME: detected}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim.
// Uses high-quality Catmull-Rom interpolation.
// Returns the original image if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	// Calculate new dimensions preserving aspect ratio.
	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
