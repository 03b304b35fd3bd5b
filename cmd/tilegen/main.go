// Command tilegen slices a full-world map image into the tile pyramid
// the editor renders from.
package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xfmoulet/qoi"
	xdraw "golang.org/x/image/draw"

	"map-editor/internal/tiles"
)

var (
	inputPath  string
	outDir     string
	worldBound float64
	format     string
)

var rootCmd = &cobra.Command{
	Use:   "tilegen",
	Short: "Generate a tile pyramid from a world map image",
	Long: `Reads one image covering the whole world square and cuts it into
tiles for every pyramid level, writing <out>/<source>/<x>_<y>.<ext>
the way the editor's tile source expects them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputPath == "" {
			return fmt.Errorf("--input is required")
		}
		if format != "png" && format != "qoi" {
			return fmt.Errorf("unsupported format %q (png or qoi)", format)
		}

		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()

		src, _, err := image.Decode(f)
		if err != nil {
			return fmt.Errorf("decode input: %w", err)
		}

		for _, level := range tiles.DefaultPyramid().Levels() {
			n, err := sliceLevel(src, level)
			if err != nil {
				return err
			}
			fmt.Printf("level %d: wrote %d tiles of %dpx (%d units each)\n",
				level.SourceID, n, level.ResolutionPx, level.UnitsPerTile)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&inputPath, "input", "", "world map image covering the full world square")
	rootCmd.Flags().StringVar(&outDir, "out", "tiles", "output directory")
	rootCmd.Flags().Float64Var(&worldBound, "bound", 10000, "world half-extent in units")
	rootCmd.Flags().StringVar(&format, "format", "png", "tile format: png or qoi")
}

// sliceLevel cuts the source into one level's tiles. The source image
// maps linearly onto world [-bound, +bound] on both axes; each tile is
// resampled to the level's resolution with Catmull-Rom.
func sliceLevel(src image.Image, level tiles.Level) (int, error) {
	dir := filepath.Join(outDir, fmt.Sprintf("%d", level.SourceID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	b := src.Bounds()
	pxPerUnit := float64(b.Dx()) / (2 * worldBound)
	upt := float64(level.UnitsPerTile)
	maxIndex := int(math.Ceil(worldBound / upt))

	written := 0
	for ty := -maxIndex; ty < maxIndex; ty++ {
		for tx := -maxIndex; tx < maxIndex; tx++ {
			sr := image.Rect(
				b.Min.X+int((float64(tx)*upt+worldBound)*pxPerUnit),
				b.Min.Y+int((float64(ty)*upt+worldBound)*pxPerUnit),
				b.Min.X+int((float64(tx+1)*upt+worldBound)*pxPerUnit),
				b.Min.Y+int((float64(ty+1)*upt+worldBound)*pxPerUnit),
			).Intersect(b)
			if sr.Empty() {
				continue
			}

			tile := image.NewRGBA(image.Rect(0, 0, level.ResolutionPx, level.ResolutionPx))
			xdraw.CatmullRom.Scale(tile, tile.Bounds(), src, sr, xdraw.Src, nil)

			if err := writeTile(dir, tx, ty, tile); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

func writeTile(dir string, tx, ty int, tile image.Image) error {
	path := filepath.Join(dir, fmt.Sprintf("%d_%d.%s", tx, ty, format))
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if format == "qoi" {
		return qoi.Encode(out, tile)
	}
	return png.Encode(out, tile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
