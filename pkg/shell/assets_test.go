package shell

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/lumen-dev/lumen/pkg/assets"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestAssetLoaderDecodesImage(t *testing.T) {
	store := assets.NewMemStore()
	store.Put("icons/app.png", pngBytes(t, 16, 12))
	loader := NewAssetLoader(assets.NewResolver(store))

	img, err := loader.Image(context.Background(), "icons/app.png")
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 16 || bounds.Dy() != 12 {
		t.Errorf("bounds = %v, want 16x12", bounds)
	}
}

func TestAssetLoaderRejectsGarbage(t *testing.T) {
	store := assets.NewMemStore()
	store.Put("icons/bad.png", []byte("not an image"))
	loader := NewAssetLoader(assets.NewResolver(store))

	if _, err := loader.Image(context.Background(), "icons/bad.png"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestAssetLoaderMissing(t *testing.T) {
	loader := NewAssetLoader(assets.NewResolver(assets.NewMemStore()))

	_, err := loader.Image(context.Background(), "missing.png")
	if !errors.Is(err, assets.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAssetLoaderRaw(t *testing.T) {
	store := assets.NewMemStore()
	store.Put("fonts/body.ttf", []byte{0, 1, 0, 0})
	loader := NewAssetLoader(assets.NewResolver(store))

	asset, err := loader.Raw(context.Background(), "fonts/body.ttf")
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if len(asset.Data) != 4 {
		t.Errorf("data = %d bytes, want 4", len(asset.Data))
	}
}

func TestAppExposesAssets(t *testing.T) {
	resolver := assets.NewResolver(assets.NewMemStore())
	app, err := NewApp(AppOptions{Manager: NewManager(), Assets: resolver})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	if app.Assets() == nil {
		t.Fatal("Assets() = nil")
	}

	bare, err := NewApp(AppOptions{Manager: NewManager()})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	if bare.Assets() != nil {
		t.Error("Assets() should be nil without a resolver")
	}
}
