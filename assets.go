package tetra

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/fs"
	"log"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrAssetMissing is wrapped by AssetStore errors for names the store does
// not know.
var ErrAssetMissing = errors.New("tetra: asset missing")

// AssetStore resolves a sprite name (PoseKey.Name) to a bitmap of native
// sprite size whose color-key pixels are already transparent.
type AssetStore interface {
	LoadSprite(name string) (*ebiten.Image, error)
}

// MapStore is an in-memory AssetStore.
type MapStore map[string]*ebiten.Image

// LoadSprite returns the image registered under name.
func (m MapStore) LoadSprite(name string) (*ebiten.Image, error) {
	if img, ok := m[name]; ok && img != nil {
		return img, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrAssetMissing, name)
}

// FSStore loads "<dir>/<name>.png" files from a file system and clears the
// color key on load.
type FSStore struct {
	fsys fs.FS
	dir  string
	key  color.Color
}

// NewFSStore creates a store reading PNG sprites from dir inside fsys, with
// ColorKeyGreen as the transparent key.
func NewFSStore(fsys fs.FS, dir string) *FSStore {
	return &FSStore{fsys: fsys, dir: dir, key: ColorKeyGreen.NRGBA()}
}

// SetColorKey changes the transparent key applied to loaded sprites.
func (s *FSStore) SetColorKey(c Color) {
	s.key = c.NRGBA()
}

// LoadSprite decodes the PNG for name.
func (s *FSStore) LoadSprite(name string) (*ebiten.Image, error) {
	p := path.Join(s.dir, name+".png")
	f, err := s.fsys.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetMissing, p)
		}
		return nil, fmt.Errorf("tetra: open %s: %w", p, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tetra: decode %s: %w", p, err)
	}
	return ebiten.NewImageFromImage(ApplyColorKey(img, s.key)), nil
}

// ApplyColorKey returns a copy of src in which every opaque pixel whose RGB
// equals key's RGB is fully transparent. This is how sprites authored with
// a reserved background color end up skipped when blitted.
func ApplyColorKey(src image.Image, key color.Color) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	k := color.NRGBAModel.Convert(key).(color.NRGBA)
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i+3] == 0 {
			continue
		}
		if dst.Pix[i] == k.R && dst.Pix[i+1] == k.G && dst.Pix[i+2] == k.B {
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 0, 0, 0, 0
		}
	}
	return dst
}

// SpriteCache resolves poses through an AssetStore, loading each name at
// most once. Names the store cannot serve get a procedural placeholder and
// a single log line.
type SpriteCache struct {
	store  AssetStore
	width  int
	height int

	images  map[PoseKey]*ebiten.Image
	missing map[string]error
}

// NewSpriteCache creates a cache for sprites of the given native size.
// store may be nil, in which case every pose is a placeholder.
func NewSpriteCache(store AssetStore, width, height int) *SpriteCache {
	return &SpriteCache{
		store:   store,
		width:   width,
		height:  height,
		images:  make(map[PoseKey]*ebiten.Image),
		missing: make(map[string]error),
	}
}

// Sprite returns the image for key. It never returns nil.
func (c *SpriteCache) Sprite(key PoseKey) *ebiten.Image {
	if img, ok := c.images[key]; ok {
		return img
	}
	img, err := c.load(key.Name())
	if err != nil {
		c.missing[key.Name()] = err
		log.Printf("tetra: sprite %q unavailable, using placeholder: %v", key.Name(), err)
		img = newPlaceholder(key, c.width, c.height)
	}
	c.images[key] = img
	return img
}

func (c *SpriteCache) load(name string) (*ebiten.Image, error) {
	if c.store == nil {
		return nil, fmt.Errorf("%w: no asset store", ErrAssetMissing)
	}
	img, err := c.store.LoadSprite(name)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: %q returned no image", ErrAssetMissing, name)
	}
	return img, nil
}

// Preload resolves every pose in keys so later draws never hit the store.
// It returns the number of poses that fell back to a placeholder.
func (c *SpriteCache) Preload(keys []PoseKey) int {
	for _, k := range keys {
		c.Sprite(k)
	}
	n := 0
	for _, k := range keys {
		if _, ok := c.missing[k.Name()]; ok {
			n++
		}
	}
	return n
}

// Missing returns the load error for each name that fell back to a placeholder.
func (c *SpriteCache) Missing() map[string]error {
	return c.missing
}

// Reload forgets every resolved sprite; the next draw asks the store again.
func (c *SpriteCache) Reload() {
	clear(c.images)
	clear(c.missing)
}

// Size returns the native sprite size.
func (c *SpriteCache) Size() (int, int) {
	return c.width, c.height
}
