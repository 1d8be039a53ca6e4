package plotting

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"image/color"
)

// linesOver returns a plot with one line per row of 'm' against the wavenumbers, coloured from
// the palette of the style.
func linesOver(m mat.Matrix, wavenumbers []float64, style Style, ylabel string) (*plot.Plot, error) {
	rows, err := rowsOver(m, wavenumbers)
	if err != nil {
		return nil, err
	}

	p := newPlot("", WavenumberLabel, ylabel)
	style.apply(p)

	for i, xys := range rows {
		l, err := line(xys, style.color(i), false)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to draw row %d", i)
		}
		p.Add(l)
	}

	return p, nil
}

// Spectra draws each row of 'values' as an absorbance spectrum over the given wavenumbers.
func Spectra(values mat.Matrix, wavenumbers []float64, style Style, path string) error {
	style = style.withDefaults()

	p, err := linesOver(values, wavenumbers, style, "Absorbance")
	if err != nil {
		return err
	}

	return save(p, style.Width, style.Height, path)
}

// ShapleyLines draws each row of 'values' as a line of absolute Shapley values. An unset palette
// uses the Shapley colour.
func ShapleyLines(values mat.Matrix, wavenumbers []float64, style Style, path string) error {
	if len(style.Palette) == 0 {
		style.Palette = DefaultShapleyPalette
	}
	style = style.withDefaults()

	p, err := linesOver(values, wavenumbers, style, "Absolute shapley values")
	if err != nil {
		return err
	}

	return save(p, style.Width, style.Height, path)
}

// DefaultShapleyPalette is the palette of ShapleyLines when none is given.
var DefaultShapleyPalette = []color.Color{Shapley}

// ShapleyOverlay draws two aligned panels sharing the wavenumber axis: the Shapley values of each
// row of 'shap' as points above, and the matching rows of 'spectra' as lines below. Both use the
// same colour for the same row.
func ShapleyOverlay(shap, spectra mat.Matrix, wavenumbers []float64, style Style, path string) error {
	style = style.withDefaults()

	sr, _ := shap.Dims()
	if r, _ := spectra.Dims(); r != sr {
		return errors.Errorf("%d rows of Shapley values given for %d spectra", sr, r)
	}

	rows, err := rowsOver(shap, wavenumbers)
	if err != nil {
		return err
	}

	top := newPlot("", "", "Shapley values")
	style.apply(top)
	for i, xys := range rows {
		sc, err := scatter(xys, faded(style.color(i), 0.6))
		if err != nil {
			return errors.Wrapf(err, "Failed to draw Shapley values of row %d", i)
		}
		top.Add(sc)
	}

	bottom, err := linesOver(spectra, wavenumbers, style, "Absorbance")
	if err != nil {
		return err
	}

	// the panels share an x range so that their wavenumbers line up
	xmin, xmax := top.X.Min, top.X.Max
	if bottom.X.Min < xmin {
		xmin = bottom.X.Min
	}
	if bottom.X.Max > xmax {
		xmax = bottom.X.Max
	}
	top.X.Min, top.X.Max = xmin, xmax
	bottom.X.Min, bottom.X.Max = xmin, xmax

	return saveTiled([][]*plot.Plot{{top}, {bottom}}, style.Width, style.Height, path)
}

// PLSCoefficients draws each row of 'coefs' as a line of PLS regression coefficients, with a
// dashed line at zero.
func PLSCoefficients(coefs mat.Matrix, wavenumbers []float64, style Style, path string) error {
	style = style.withDefaults()

	p, err := linesOver(coefs, wavenumbers, style, "PLS coefficient")
	if err != nil {
		return err
	}

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.RGBA{B: 0xff, A: 0xff}
	zero.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(zero)

	return save(p, style.Width, style.Height, path)
}

// faded returns 'c' with its opacity scaled by 'a'.
func faded(c color.Color, a float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A) * a)
	return n
}
