package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "funk", "song", "arr", "part.svg")

	if err := WriteFile(context.Background(), target, []byte("one")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(context.Background(), target, []byte("two")); err != nil {
		t.Fatalf("WriteFile overwrite: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}
	if !Exists(target) || Exists(filepath.Join(dir, "missing")) {
		t.Error("Exists mismatch")
	}
}

func TestWriteFile_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := filepath.Join(t.TempDir(), "x")
	if err := WriteFile(ctx, target, []byte("x")); err == nil {
		t.Error("expected error for canceled context")
	}
	if Exists(target) {
		t.Error("file should not be written after cancellation")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxSize       int
		wantW, wantH  int
	}{
		{"landscape", 200, 100, 50, 50, 25},
		{"portrait", 2480, 3508, 400, 282, 400},
		{"small stays", 30, 20, 50, 30, 20},
		{"no limit", 300, 300, 0, 300, 300},
		{"thin", 1000, 1, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fit(tt.width, tt.height, tt.maxSize)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fit(%d, %d, %d) = %dx%d, want %dx%d", tt.width, tt.height, tt.maxSize, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageService_Preview(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		for y := 0; y < 100; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	svc := NewImageService(0)
	out, err := svc.Preview(context.Background(), buf.Bytes(), 50)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("preview is not a JPEG: %v", err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 25 {
		t.Errorf("preview size = %v, want 50x25", img.Bounds())
	}
}

func TestImageService_PreviewRejectsGarbage(t *testing.T) {
	svc := NewImageService(90)
	if _, err := svc.Preview(context.Background(), []byte("<svg/>"), 50); err == nil {
		t.Error("expected decode error")
	}
}

func TestCanPreview(t *testing.T) {
	if !CanPreview("png") || !CanPreview("jpg") || CanPreview("svg") || CanPreview("pdf") {
		t.Error("CanPreview mismatch")
	}
}
