package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// PreviewExtensions lists the raster formats a preview can be made from.
var PreviewExtensions = []string{"png", "jpg", "jpeg"}

// ImageService produces preview thumbnails of raster part files.
//
// Scanned parts are often several thousand pixels tall; the previews are
// small JPEGs suitable for listing pages.
//
// Example usage:
//
//	svc := NewImageService(85)
//	preview, err := svc.Preview(ctx, pngData, 400)
type ImageService struct {
	quality int
}

// NewImageService creates an ImageService encoding JPEG at the given quality.
// Out-of-range qualities fall back to 85.
func NewImageService(quality int) *ImageService {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &ImageService{quality: quality}
}

// CanPreview reports whether ext (without the dot) is a previewable format.
func CanPreview(ext string) bool {
	for _, e := range PreviewExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Preview scales an image down to fit within maxSize x maxSize and returns it
// JPEG-encoded. The aspect ratio is preserved and images are never enlarged.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 2480x3508 scan becomes 283x400
//	preview, err := svc.Preview(ctx, scan, 400)
func (s *ImageService) Preview(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	width, height := fit(img.Bounds().Dx(), img.Bounds().Dy(), maxSize)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit returns dimensions within maxSize x maxSize keeping the aspect ratio.
func fit(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	if width >= height {
		h := height * maxSize / width
		if h < 1 {
			h = 1
		}
		return maxSize, h
	}
	w := width * maxSize / height
	if w < 1 {
		w = 1
	}
	return w, maxSize
}
