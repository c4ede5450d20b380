package ioutils

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestImage(t *testing.T, width, height int, format string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestImageService_ResizeToFit(t *testing.T) {
	svc := NewImageService()

	data := encodeTestImage(t, 400, 200, "jpeg")
	out, err := svc.ResizeToFit(data, 100)
	if err != nil {
		t.Fatalf("ResizeToFit: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Errorf("resized to %dx%d, want 100x50", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestImageService_ResizeToFit_PreservesPNG(t *testing.T) {
	svc := NewImageService()

	data := encodeTestImage(t, 100, 300, "png")
	out, err := svc.ResizeToFit(data, 150)
	if err != nil {
		t.Fatalf("ResizeToFit: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 150 {
		t.Errorf("resized to %dx%d, want 50x150", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestImageService_ResizeToFit_SmallImageUnchanged(t *testing.T) {
	svc := NewImageService()

	data := encodeTestImage(t, 80, 60, "jpeg")
	out, err := svc.ResizeToFit(data, 100)
	if err != nil {
		t.Fatalf("ResizeToFit: %v", err)
	}

	if !bytes.Equal(out, data) {
		t.Error("images within the bound should be returned unchanged")
	}
}

func TestImageService_ResizeToFit_NotAnImage(t *testing.T) {
	svc := NewImageService()

	if _, err := svc.ResizeToFit([]byte("not an image"), 100); err == nil {
		t.Fatal("expected decode error")
	}
}
