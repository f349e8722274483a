package mozaik

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestToRGBA(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if got := ToRGBA(rgba); got != rgba {
		t.Error("ToRGBA copied an image that was already RGBA")
	}

	// conversion normalizes the origin and keeps pixels
	src := image.NewNRGBA(image.Rect(2, 3, 6, 7))
	src.SetNRGBA(2, 3, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	got := ToRGBA(src)
	if got.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Errorf("bounds = %v, want (0,0)-(4,4)", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{R: 9, G: 8, B: 7, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want {9 8 7 255}", c)
	}
}

func TestLoadImagePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, gridImage()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage error: %v", err)
	}
	if got, want := img.Bounds().Size(), (Size{X: 300, Y: 300}); got != want {
		t.Errorf("size = %v, want %v", got, want)
	}
}

func TestLoadImageErrors(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadImage on a missing file did not fail")
	}

	path := filepath.Join(t.TempDir(), "noise.png")
	if err := os.WriteFile(path, []byte("this is not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(path); err == nil {
		t.Error("LoadImage on garbage did not fail")
	}
}
