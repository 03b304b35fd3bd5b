package tiles

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	"github.com/xfmoulet/qoi"
	_ "golang.org/x/image/webp"
)

// ErrTileNotFound reports that a tile does not exist in the source.
// The cache records it as permanently absent; it is not retried.
var ErrTileNotFound = errors.New("tile not found")

// Source fetches tile images by source directory id and tile indices.
type Source interface {
	Fetch(sourceID, x, y int) (image.Image, error)
}

// tileExtensions are probed in order. The original tile sets keep the
// spawn-area ring as png and everything else as webp; qoi shows up in
// re-exported sets.
var tileExtensions = []string{"png", "webp", "qoi"}

// DirSource reads tiles from <root>/<sourceID>/<x>_<y>.<ext>.
type DirSource struct {
	Root string
}

// NewDirSource creates a directory-backed tile source.
func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

// Fetch loads and decodes one tile, probing the known extensions.
// Returns ErrTileNotFound when no file exists for the key.
func (s *DirSource) Fetch(sourceID, x, y int) (image.Image, error) {
	for _, ext := range tileExtensions {
		path := filepath.Join(s.Root, fmt.Sprintf("%d", sourceID), fmt.Sprintf("%d_%d.%s", x, y, ext))
		f, err := os.Open(path)
		if err != nil {
			continue
		}

		var img image.Image
		if ext == "qoi" {
			img, err = qoi.Decode(f)
		} else {
			img, _, err = image.Decode(f)
		}
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding tile %d/%d_%d.%s: %w", sourceID, x, y, ext, err)
		}
		return img, nil
	}
	return nil, ErrTileNotFound
}
