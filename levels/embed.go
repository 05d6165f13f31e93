package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TileSize is the edge of one tile in world units.
const TileSize = 32

//go:embed *.json
var LevelsFS embed.FS

type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
}

// Entity is placed in tile coordinates, row 0 at the top.
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Rect is an axis-aligned box in world units with Y pointing up.
type Rect struct {
	X, Y, W, H float64
}

// Load reads a level from levels/ on disk when present, falling back to the
// embedded copy.
func Load(name string) (*Level, error) {
	clean := cleanLevelName(name)
	data, err := os.ReadFile(filepath.Join("levels", clean))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
		if err != nil {
			return nil, fmt.Errorf("read level: %w", err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, fmt.Errorf("level: invalid size %dx%d", lvl.Width, lvl.Height)
	}
	for i, layer := range lvl.Layers {
		if len(layer) != lvl.Width*lvl.Height {
			return nil, fmt.Errorf("level: layer %d has %d tiles, want %d", i, len(layer), lvl.Width*lvl.Height)
		}
	}
	return &lvl, nil
}

func cleanLevelName(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(s, ".json") {
		s += ".json"
	}
	return s
}

// WorldWidth and WorldHeight are the level extents in world units.
func (l *Level) WorldWidth() float64 {
	return float64(l.Width * TileSize)
}

func (l *Level) WorldHeight() float64 {
	return float64(l.Height * TileSize)
}

// Spawn returns the bottom-center of the spawn tile in world units.
func (l *Level) Spawn() (x, y float64) {
	if l == nil {
		return 0, 0
	}
	tx, ty := 1, 1
	for _, e := range l.Entities {
		if e.Type == "spawn" {
			tx, ty = e.X, e.Y
			break
		}
	}
	if tx < 0 || tx >= l.Width {
		tx = 0
	}
	if ty < 0 || ty >= l.Height {
		ty = 0
	}
	x = float64(tx*TileSize) + TileSize/2.0
	y = float64((l.Height - ty - 1) * TileSize)
	return x, y
}

// SolidRects merges the non-zero tiles of every physics layer into as few
// boxes as possible: runs are grown to the right, then downward.
func (l *Level) SolidRects() []Rect {
	if l == nil {
		return nil
	}
	var rects []Rect
	for i, layer := range l.Layers {
		if len(l.LayerMeta) > 0 && (i >= len(l.LayerMeta) || !l.LayerMeta[i].Physics) {
			continue
		}
		rects = append(rects, l.mergeLayer(layer)...)
	}
	return rects
}

func (l *Level) mergeLayer(layer []int) []Rect {
	var rects []Rect
	processed := make([]bool, l.Width*l.Height)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			idx := y*l.Width + x
			if processed[idx] {
				continue
			}
			if layer[idx] == 0 {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < l.Width {
				idx2 := y*l.Width + (x + w)
				if processed[idx2] || layer[idx2] == 0 {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < l.Height {
				for xi := x; xi < x+w; xi++ {
					idx2 := (y+h)*l.Width + xi
					if processed[idx2] || layer[idx2] == 0 {
						break heightLoop
					}
				}
				h++
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*l.Width+xx] = true
				}
			}

			rects = append(rects, Rect{
				X: float64(x * TileSize),
				Y: float64((l.Height - y - h) * TileSize),
				W: float64(w * TileSize),
				H: float64(h * TileSize),
			})
		}
	}
	return rects
}
