// Package plotting renders the charts of a training run: loss curves, validation scatters,
// error histograms, PCA scores, spectra and the interpretability overlays.
//
// Every function writes a single file; the format is taken from the extension of the path, as
// with (*plot.Plot).Save.
package plotting

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"image/color"
	"os"
	"path/filepath"
	"strings"
)

// Colours of the points inside and outside the tolerance band, also used as the default palette
// of the overlays.
var (
	Inside  = color.RGBA{R: 0x21, G: 0x2c, B: 0x3d, A: 0xff}
	Outside = color.RGBA{R: 0xc0, G: 0x5e, B: 0x31, A: 0xff}

	// Shapley is the default colour of Shapley value lines
	Shapley = color.RGBA{R: 0x58, G: 0x51, B: 0x53, A: 0xff}
)

// WavenumberLabel is the x axis label of charts drawn over a spectrum.
const WavenumberLabel string = "Wavenumbers cm-1"

// Style gives the size and colours of the charts drawn over a spectrum. The zero value is
// replaced by DefaultStyle field by field.
type Style struct {
	Width, Height vg.Length

	// FontSize applies to the axis labels; tick labels are drawn slightly smaller
	FontSize vg.Length

	// Palette is cycled through for successive rows
	Palette []color.Color
}

// DefaultStyle is the style used for any field of a Style left unset.
var DefaultStyle = Style{
	Width:    18 * vg.Inch,
	Height:   10 * vg.Inch,
	FontSize: 30,
	Palette:  []color.Color{Inside, Outside},
}

func (s Style) withDefaults() Style {
	if s.Width == 0 {
		s.Width = DefaultStyle.Width
	}
	if s.Height == 0 {
		s.Height = DefaultStyle.Height
	}
	if s.FontSize == 0 {
		s.FontSize = DefaultStyle.FontSize
	}
	if len(s.Palette) == 0 {
		s.Palette = DefaultStyle.Palette
	}
	return s
}

func (s Style) color(i int) color.Color {
	return s.Palette[i%len(s.Palette)]
}

// apply sets the font sizes of both axes.
func (s Style) apply(p *plot.Plot) {
	p.X.Label.TextStyle.Font.Size = s.FontSize
	p.Y.Label.TextStyle.Font.Size = s.FontSize
	p.X.Tick.Label.Font.Size = s.FontSize - 7
	p.Y.Tick.Label.Font.Size = s.FontSize - 7
}

// default size of the simple charts
const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	return p
}

// save writes the plot to 'path', creating its directory if necessary.
func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := makeDir(path); err != nil {
		return err
	}

	if err := p.Save(w, h, path); err != nil {
		return errors.Wrapf(err, "Failed to save plot to %q", path)
	}
	return nil
}

func makeDir(path string) error {
	if path == "" {
		return errors.Errorf("No path given")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "Failed to create directory for %q", path)
		}
	}
	return nil
}

// format returns the image format implied by the extension of 'path'.
func format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// series returns the points (i, vs[i]), for plotting values against their index.
func series(vs []float64) plotter.XYs {
	xys := make(plotter.XYs, len(vs))
	for i, v := range vs {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	return xys
}

// pairs returns the points (xs[i], ys[i]).
func pairs(xs, ys []float64) (plotter.XYs, error) {
	if len(xs) != len(ys) {
		return nil, errors.Errorf("Mismatched number of values: %d and %d", len(xs), len(ys))
	}

	xys := make(plotter.XYs, len(xs))
	for i := range xs {
		xys[i].X = xs[i]
		xys[i].Y = ys[i]
	}
	return xys, nil
}

// rowsOver returns one line per row of 'm', against the given wavenumbers.
func rowsOver(m mat.Matrix, wavenumbers []float64) ([]plotter.XYs, error) {
	r, c := m.Dims()
	if c != len(wavenumbers) {
		return nil, errors.Errorf("%d wavenumbers given for rows of %d values", len(wavenumbers), c)
	}

	lines := make([]plotter.XYs, r)
	for i := range lines {
		lines[i] = make(plotter.XYs, c)
		for j := range lines[i] {
			lines[i][j].X = wavenumbers[j]
			lines[i][j].Y = m.At(i, j)
		}
	}

	return lines, nil
}

func line(xys plotter.XYs, c color.Color, dashed bool) (*plotter.Line, error) {
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}

	l.Color = c
	if dashed {
		l.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	}
	return l, nil
}

func scatter(xys plotter.XYs, c color.Color) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}

	s.Color = c
	s.Shape = draw.CircleGlyph{}
	return s, nil
}
