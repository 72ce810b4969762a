// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imaging turns downloaded cover images into the JPEG payloads the
// Tellico document declares.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Quality is the JPEG quality used when re-encoding.
const Quality = 85

// NormalizeJPEG returns data as a JPEG no larger than maxW x maxH (a zero
// bound is ignored). A JPEG that already fits is returned untouched; other
// formats are decoded and re-encoded, oversized images are scaled down
// preserving their aspect ratio.
func NormalizeJPEG(data []byte, maxW, maxH int) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("detecting image format: %w", err)
	}

	fits := (maxW <= 0 || cfg.Width <= maxW) && (maxH <= 0 || cfg.Height <= maxH)
	if format == "jpeg" && fits {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s image: %w", format, err)
	}

	if !fits {
		w, h := bound(maxW), bound(maxH)
		img = resize.Thumbnail(w, h, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// bound maps an unset limit to an effectively unlimited one for Thumbnail.
func bound(n int) uint {
	if n <= 0 {
		return 1 << 16
	}
	return uint(n)
}
