package tetra

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestApplyColorKey(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{G: 255, A: 255})        // key
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 255, A: 255}) // near the key
	src.SetNRGBA(2, 0, color.NRGBA{R: 200, B: 50, A: 255})

	out := ApplyColorKey(src, ColorKeyGreen.NRGBA())

	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{}) {
		t.Errorf("key pixel = %v, want transparent", got)
	}
	if got := out.NRGBAAt(1, 0); got.A != 255 {
		t.Errorf("near-key pixel alpha = %d, want 255", got.A)
	}
	if got := out.NRGBAAt(2, 0); got != (color.NRGBA{R: 200, B: 50, A: 255}) {
		t.Errorf("body pixel = %v, want unchanged", got)
	}
	if src.NRGBAAt(0, 0).A != 255 {
		t.Error("source image modified")
	}
}

func TestApplyColorKey_OffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{G: 255, A: 255})
	out := ApplyColorKey(src, ColorKeyGreen.NRGBA())
	if out.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Errorf("Bounds = %v, want origin-based", out.Bounds())
	}
	if out.NRGBAAt(0, 0).A != 0 {
		t.Error("key pixel not cleared")
	}
}

func TestMapStore(t *testing.T) {
	img := ebiten.NewImage(4, 4)
	store := MapStore{"swim_left_0": img}
	got, err := store.LoadSprite("swim_left_0")
	if err != nil || got != img {
		t.Errorf("LoadSprite = (%v, %v), want the registered image", got, err)
	}
	if _, err := store.LoadSprite("turn_0"); !errors.Is(err, ErrAssetMissing) {
		t.Errorf("missing sprite error = %v, want ErrAssetMissing", err)
	}
}

func TestFSStore_LoadSprite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	fsys := fstest.MapFS{
		"fish/swim_right_2.png": &fstest.MapFile{Data: encodePNG(t, src)},
		"fish/turn_90.png":      &fstest.MapFile{Data: []byte("not a png")},
	}
	store := NewFSStore(fsys, "fish")

	img, err := store.LoadSprite("swim_right_2")
	if err != nil {
		t.Fatalf("LoadSprite: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("size = %dx%d, want 8x6", b.Dx(), b.Dy())
	}

	if _, err := store.LoadSprite("swim_left_0"); !errors.Is(err, ErrAssetMissing) {
		t.Errorf("absent file error = %v, want ErrAssetMissing", err)
	}
	_, err = store.LoadSprite("turn_90")
	if err == nil || errors.Is(err, ErrAssetMissing) {
		t.Errorf("corrupt file error = %v, want a decode error", err)
	}
}

func TestSpriteCache_LoadsOnce(t *testing.T) {
	calls := 0
	store := countingStore{calls: &calls, img: ebiten.NewImage(40, 20)}
	cache := NewSpriteCache(store, 40, 20)

	a := cache.Sprite(TurnPose(0))
	b := cache.Sprite(TurnPose(0))
	if a != b {
		t.Error("Sprite returned different images for the same pose")
	}
	if calls != 1 {
		t.Errorf("store calls = %d, want 1", calls)
	}

	cache.Reload()
	cache.Sprite(TurnPose(0))
	if calls != 2 {
		t.Errorf("store calls after Reload = %d, want 2", calls)
	}
}

func TestSpriteCache_PlaceholderFallback(t *testing.T) {
	cache := NewSpriteCache(MapStore{}, 40, 20)

	img := cache.Sprite(SwimPose(FacingRight, 3))
	if img == nil {
		t.Fatal("Sprite returned nil")
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("placeholder size = %dx%d, want 40x20", b.Dx(), b.Dy())
	}
	err, ok := cache.Missing()["swim_right_3"]
	if !ok || !errors.Is(err, ErrAssetMissing) {
		t.Errorf("Missing()[swim_right_3] = %v, %v", err, ok)
	}
	if w, h := cache.Size(); w != 40 || h != 20 {
		t.Errorf("Size = %dx%d", w, h)
	}
}

func TestSpriteCache_Preload(t *testing.T) {
	store := MapStore{"turn_0": ebiten.NewImage(40, 20)}
	cache := NewSpriteCache(store, 40, 20)
	keys := []PoseKey{TurnPose(0), TurnPose(45), SwimPose(FacingLeft, 0)}
	if n := cache.Preload(keys); n != 2 {
		t.Errorf("Preload = %d, want 2 placeholders", n)
	}
}

type countingStore struct {
	calls *int
	img   *ebiten.Image
}

func (s countingStore) LoadSprite(string) (*ebiten.Image, error) {
	*s.calls++
	return s.img, nil
}
