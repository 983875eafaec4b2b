package storage

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestSaveReturnsURLAndWritesFile(t *testing.T) {
	store, err := New(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url, err := store.Save(bytes.NewReader(pngBytes(t, 10, 10)))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Errorf("expected /uploads/ prefix, got %q", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("expected .jpg suffix, got %q", url)
	}

	name := strings.TrimPrefix(url, "/uploads/")
	if _, err := os.Stat(filepath.Join(store.Dir(), name)); err != nil {
		t.Errorf("expected stored file on disk: %v", err)
	}
}

func TestSaveRejectsNonImage(t *testing.T) {
	store, err := New(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := store.Save(strings.NewReader("definitely not an image")); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestDownscaleLimitsDimensions(t *testing.T) {
	img := downscale(image.NewRGBA(image.Rect(0, 0, 4096, 1024)), MaxDimension)

	bounds := img.Bounds()
	if bounds.Dx() != MaxDimension {
		t.Errorf("expected width %d, got %d", MaxDimension, bounds.Dx())
	}
	if bounds.Dy() != 256 {
		t.Errorf("expected aspect-preserving height 256, got %d", bounds.Dy())
	}
}

func TestDownscaleKeepsSmallImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	if got := downscale(src, MaxDimension); got != src {
		t.Error("expected small image to pass through unchanged")
	}
}
