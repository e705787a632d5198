package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

var errUndecodable = errors.New("render: image not decodable as PNG or JPEG")

// decodedImage describes a raster asset ready for embedding. Width and height
// are pixel dimensions, treated as points at the default 72 dpi.
type decodedImage struct {
	format string // fpdf image type, "PNG" or "JPG"
	width  float64
	height float64
}

// decodeImage probes the raw buffer using the declared mime type first and
// falls back to trial decodes (PNG, then JPEG) when the declared type is
// absent or wrong.
func decodeImage(data []byte, declaredMime string) (decodedImage, error) {
	switch declaredMime {
	case "image/png":
		if cfg, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
			return configImage("PNG", cfg), nil
		}
	case "image/jpeg", "image/jpg":
		if cfg, err := jpeg.DecodeConfig(bytes.NewReader(data)); err == nil {
			return configImage("JPG", cfg), nil
		}
	}
	if cfg, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
		return configImage("PNG", cfg), nil
	}
	if cfg, err := jpeg.DecodeConfig(bytes.NewReader(data)); err == nil {
		return configImage("JPG", cfg), nil
	}
	return decodedImage{}, fmt.Errorf("%w (declared %q)", errUndecodable, declaredMime)
}

func configImage(format string, cfg image.Config) decodedImage {
	return decodedImage{
		format: format,
		width:  float64(cfg.Width),
		height: float64(cfg.Height),
	}
}

// fitScale returns the factor that fits the image into the bounding box while
// preserving aspect ratio. Images smaller than the box are never upscaled.
func fitScale(w, h, maxW, maxH float64) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	scale := 1.0
	if s := maxW / w; s < scale {
		scale = s
	}
	if s := maxH / h; s < scale {
		scale = s
	}
	return scale
}

// fitted returns the scaled dimensions and the x offset that centers the
// image within the full page width.
func (d decodedImage) fitted(maxW, maxH float64) (x, w, h float64) {
	scale := fitScale(d.width, d.height, maxW, maxH)
	w = d.width * scale
	h = d.height * scale
	x = (pageWidth - w) / 2
	return x, w, h
}
