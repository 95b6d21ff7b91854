package tetra

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// atlasRegion describes a sprite within an atlas page.
type atlasRegion struct {
	page             int
	frame            image.Rectangle // rect occupied in the page; h x w when rotated
	originalW        int             // untrimmed sprite width as authored
	originalH        int             // untrimmed sprite height as authored
	offsetX, offsetY int             // trim offset inside the untrimmed sprite
	rotated          bool            // stored 90 degrees clockwise in the page
	trimmedOrRotated bool
}

// AtlasStore serves sprites packed into TexturePacker atlases. Region names
// are matched without their file extension, so "swim_left_0.png" answers to
// the pose name "swim_left_0".
type AtlasStore struct {
	pages   []*ebiten.Image
	regions map[string]atlasRegion
	cache   map[string]*ebiten.Image
}

// LoadAtlas parses TexturePacker JSON data and associates the given page
// images. Supports both the hash format (single "frames" object) and the
// array format ("textures" array with per-page frame lists). Page images
// are expected to already have their color key applied (see ApplyColorKey).
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*AtlasStore, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("tetra: parse atlas JSON: %w", err)
	}

	atlas := &AtlasStore{
		pages:   pages,
		regions: make(map[string]atlasRegion),
		cache:   make(map[string]*ebiten.Image),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("tetra: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	for name, r := range atlas.regions {
		if r.page >= len(pages) || pages[r.page] == nil {
			return nil, fmt.Errorf("tetra: atlas region %q references missing page %d", name, r.page)
		}
	}
	return atlas, nil
}

// Has reports whether the atlas contains a region with the given name.
func (a *AtlasStore) Has(name string) bool {
	_, ok := a.regions[name]
	return ok
}

// LoadSprite returns the untrimmed, unrotated sprite for name.
func (a *AtlasStore) LoadSprite(name string) (*ebiten.Image, error) {
	if img, ok := a.cache[name]; ok {
		return img, nil
	}
	r, ok := a.regions[name]
	if !ok {
		return nil, fmt.Errorf("%w: atlas region %q", ErrAssetMissing, name)
	}
	page := a.pages[r.page]
	sub := page.SubImage(r.frame).(*ebiten.Image)
	if !r.trimmedOrRotated {
		a.cache[name] = sub
		return sub, nil
	}

	img := ebiten.NewImage(r.originalW, r.originalH)
	var op ebiten.DrawImageOptions
	if r.rotated {
		// Stored 90 degrees clockwise: rotate back, then shift down by the
		// stored width.
		op.GeoM.Rotate(-math.Pi / 2)
		op.GeoM.Translate(0, float64(r.frame.Dx()))
	}
	op.GeoM.Translate(float64(r.offsetX), float64(r.offsetY))
	img.DrawImage(sub, &op)
	a.cache[name] = img
	return img, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *AtlasStore) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("tetra: parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.regions[regionName(name)] = frameToRegion(f, page)
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *AtlasStore) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("tetra: parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			atlas.regions[regionName(name)] = frameToRegion(f, i)
		}
	}
	return nil
}

func regionName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func frameToRegion(f jsonFrame, page int) atlasRegion {
	// Frame sizes are unrotated; a rotated sprite occupies h x w in the page.
	w, h := f.Frame.W, f.Frame.H
	frame := image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+w, f.Frame.Y+h)
	if f.Rotated {
		frame = image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+h, f.Frame.Y+w)
	}
	ow, oh := f.SourceSize.W, f.SourceSize.H
	if ow == 0 || oh == 0 {
		ow, oh = w, h
	}
	r := atlasRegion{
		page:      page,
		frame:     frame,
		originalW: ow,
		originalH: oh,
		offsetX:   f.SpriteSourceSize.X,
		offsetY:   f.SpriteSourceSize.Y,
		rotated:   f.Rotated,
	}
	r.trimmedOrRotated = f.Rotated || f.Trimmed || r.offsetX != 0 || r.offsetY != 0 ||
		ow != w || oh != h
	return r
}
