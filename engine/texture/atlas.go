package texture

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
)

// ErrNoFrames is returned when atlas JSON carries neither a "frames" nor a "textures" key.
var ErrNoFrames = errors.New("texture: atlas JSON has no frames")

// Atlas maps region names to slices of a single atlas page.
type Atlas struct {
	Texture gpu.Texture
	regions map[string]Slice
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonPage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// ParseAtlas reads TexturePacker JSON (hash or array-of-pages format) for a single-page atlas.
// In the array format only the first page is used.
//
// Parameters:
//   - data: the atlas JSON
//   - tex: the uploaded atlas page
//
// Returns:
//   - *Atlas: the parsed atlas
//   - error: an error if the JSON is malformed or has no frames
func ParseAtlas(data []byte, tex gpu.Texture) (*Atlas, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("texture: failed to parse atlas JSON: %w", err)
	}

	var frames map[string]jsonFrame
	if raw, ok := root["frames"]; ok {
		if err := json.Unmarshal(raw, &frames); err != nil {
			return nil, fmt.Errorf("texture: failed to parse atlas frames: %w", err)
		}
	} else if raw, ok := root["textures"]; ok {
		var pages []jsonPage
		if err := json.Unmarshal(raw, &pages); err != nil {
			return nil, fmt.Errorf("texture: failed to parse atlas textures: %w", err)
		}
		if len(pages) == 0 {
			return nil, ErrNoFrames
		}
		frames = pages[0].Frames
	} else {
		return nil, ErrNoFrames
	}

	a := &Atlas{Texture: tex, regions: make(map[string]Slice, len(frames))}
	for name, f := range frames {
		w, h := f.Frame.W, f.Frame.H
		if f.Rotated {
			// TexturePacker reports the stored rectangle; the authored size is transposed.
			w, h = h, w
		}
		a.regions[name] = NewRegion(tex, f.Frame.X, f.Frame.Y, w, h, f.Rotated)
	}
	return a, nil
}

// Slice returns the named region.
//
// Parameters:
//   - name: the region name
//
// Returns:
//   - Slice: the region
//   - bool: false if the atlas has no region with that name
func (a *Atlas) Slice(name string) (Slice, bool) {
	s, ok := a.regions[name]
	return s, ok
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for n := range a.regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
