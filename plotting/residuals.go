package plotting

import (
	"github.com/florent-haffner/ipa-under-the-light/metrics"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// HistogramOptions sets the binning and the visible range of ErrorHistogram. Zero fields take
// the values of DefaultHistogram.
type HistogramOptions struct {
	Bins int

	// Deviation is the half-width of the x axis
	Deviation float64

	// MaxCount is the top of the y axis
	MaxCount float64
}

var DefaultHistogram = HistogramOptions{
	Bins:      35,
	Deviation: 1,
	MaxCount:  50,
}

func (o HistogramOptions) withDefaults() HistogramOptions {
	if o.Bins == 0 {
		o.Bins = DefaultHistogram.Bins
	}
	if o.Deviation == 0 {
		o.Deviation = DefaultHistogram.Deviation
	}
	if o.MaxCount == 0 {
		o.MaxCount = DefaultHistogram.MaxCount
	}
	return o
}

func errorHistogram(labels, preds []float64, bins int) (*plot.Plot, error) {
	residuals, err := metrics.Residuals(labels, preds)
	if err != nil {
		return nil, err
	}

	h, err := plotter.NewHist(plotter.Values(residuals), bins)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to bin prediction errors")
	}
	h.FillColor = Inside

	p := newPlot("", "Prediction Error", "Count")
	p.Add(h)
	return p, nil
}

// ErrorHistogram draws the distribution of prediction errors, preds[i] - labels[i].
func ErrorHistogram(labels, preds []float64, opts HistogramOptions, path string) error {
	opts = opts.withDefaults()

	p, err := errorHistogram(labels, preds, opts.Bins)
	if err != nil {
		return err
	}

	p.X.Min, p.X.Max = -opts.Deviation, opts.Deviation
	p.Y.Min, p.Y.Max = 0, opts.MaxCount

	return save(p, width, height, path)
}

// Prediction draws two panels side by side: observed against predicted values over [0, 80] with
// the identity line, and the histogram of prediction errors with 50 bins.
func Prediction(labels, preds []float64, path string) error {
	xys, err := pairs(labels, preds)
	if err != nil {
		return err
	}

	obs := newPlot("", "Observed values", "Predicted values")

	sc, err := scatter(xys, Inside)
	if err != nil {
		return errors.Wrapf(err, "Failed to draw predictions")
	}
	id, err := line(plotter.XYs{{X: -100, Y: -100}, {X: 100, Y: 100}}, Shapley, true)
	if err != nil {
		return errors.Wrapf(err, "Failed to draw identity line")
	}

	obs.Add(sc, id)
	obs.X.Min, obs.X.Max = 0, 80
	obs.Y.Min, obs.Y.Max = 0, 80

	hist, err := errorHistogram(labels, preds, 50)
	if err != nil {
		return err
	}

	return saveTiled([][]*plot.Plot{{obs, hist}}, 2*width, height, path)
}
