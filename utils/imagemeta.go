package utils

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ImageDimensions probes the pixel size of an encoded image without decoding
// the full bitmap. Returns nils when the format is unknown; dimensions are
// best-effort and their absence is not an error.
func ImageDimensions(data []byte) (width, height *int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}
	w, h := cfg.Width, cfg.Height
	return &w, &h
}
