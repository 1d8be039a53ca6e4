package plotting

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"os"
)

// tilePad is the space around and between tiled panels
const tilePad = vg.Length(10)

// saveTiled draws the rows of plots aligned on a single canvas, and writes it to 'path'.
func saveTiled(plots [][]*plot.Plot, w, h vg.Length, path string) error {
	if err := makeDir(path); err != nil {
		return err
	}

	c, err := draw.NewFormattedCanvas(w, h, format(path))
	if err != nil {
		return errors.Wrapf(err, "Failed to create canvas for %q", path)
	}

	t := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      tilePad,
		PadY:      tilePad,
		PadTop:    tilePad,
		PadBottom: tilePad,
		PadLeft:   tilePad,
		PadRight:  tilePad,
	}

	canvases := plot.Align(plots, t, draw.New(c))
	for j := range plots {
		for i, p := range plots[j] {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %q", path)
	}

	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "Failed to write %q", path)
	}
	return f.Close()
}
