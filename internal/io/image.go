package ioutils

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// ImageService provides optional post-processing of downloaded images.
//
// The only operation is a max-dimension resize, used when the output is
// for screens rather than archival and full resolution is unwanted.
// Resizing preserves the source format so the target filename (and with it
// the resume check) stays valid.
//
// Example usage:
//
//	svc := NewImageService()
//	smaller, err := svc.ResizeToFit(imageData, 2048)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeToFit scales an image down so neither dimension exceeds maxSize,
// preserving aspect ratio and encoding format.
//
// Images already within the bound are returned unchanged, byte for byte.
// The Catmull-Rom algorithm is used for high-quality scaling. GIF output
// keeps only the first frame.
func (s *ImageService) ResizeToFit(data []byte, maxSize int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxSize && height <= maxSize {
		return data, nil
	}

	// Scale the longer side down to maxSize, keeping aspect ratio
	if width > height {
		height = height * maxSize / width
		width = maxSize
	} else {
		width = width * maxSize / height
		height = maxSize
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
