package plotting

import (
	"github.com/florent-haffner/ipa-under-the-light/metrics"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"fmt"
	"image/color"
	"math"
)

// ValidationOptions sets the tolerance band and the axis range of Validation. Zero fields take
// the values of DefaultValidation.
type ValidationOptions struct {
	// Limit is the half-width of the band around the identity line
	Limit float64

	// Axes is the [min, max] range of both axes
	Axes [2]float64
}

var DefaultValidation = ValidationOptions{
	Limit: 2.8,
	Axes:  [2]float64{7, 16},
}

func (o ValidationOptions) withDefaults() ValidationOptions {
	if o.Limit == 0 {
		o.Limit = DefaultValidation.Limit
	}
	if o.Axes == [2]float64{} {
		o.Axes = DefaultValidation.Axes
	}
	return o
}

// BandShare returns the share of predictions strictly within 'limit' of their label, and the
// number of predictions on or beyond it.
func BandShare(labels, preds []float64, limit float64) (share float64, outside int, err error) {
	b, err := metrics.Tolerance(labels, preds, limit)
	if err != nil {
		return 0, 0, err
	}
	return b.Share(), b.Outside, nil
}

// Validation draws observed against predicted values, with the identity line and a band of
// ±Limit around it. Points inside the band and beyond it are coloured differently, and the legend
// gives the count beyond the band and the share inside it.
func Validation(labels, preds []float64, opts ValidationOptions, path string) error {
	opts = opts.withDefaults()

	share, outside, err := BandShare(labels, preds, opts.Limit)
	if err != nil {
		return err
	}

	var in, out plotter.XYs
	for i := range labels {
		pt := plotter.XY{X: labels[i], Y: preds[i]}
		if math.Abs(preds[i]-labels[i]) >= opts.Limit {
			out = append(out, pt)
		} else {
			in = append(in, pt)
		}
	}

	p := newPlot("", "Observed values", "Predicted values")
	p.Legend.Top, p.Legend.Left = true, true

	mini := floats.Min(labels)
	if m := floats.Min(preds); m < mini {
		mini = m
	}
	maxi := floats.Max(labels)
	if m := floats.Max(preds); m > maxi {
		maxi = m
	}

	gray := color.Gray{Y: 128}
	for _, l := range []struct {
		shift float64
		c     color.Color
	}{{0, gray}, {-opts.Limit, color.Black}, {opts.Limit, color.Black}} {
		ln, err := line(plotter.XYs{{X: mini, Y: mini + l.shift}, {X: maxi, Y: maxi + l.shift}}, l.c, true)
		if err != nil {
			return errors.Wrapf(err, "Failed to draw band")
		}
		p.Add(ln)
	}

	// empty scatters keep both legend entries
	inSc, err := scatter(in, Inside)
	if err != nil {
		return errors.Wrapf(err, "Failed to draw points inside the band")
	}
	outSc, err := scatter(out, Outside)
	if err != nil {
		return errors.Wrapf(err, "Failed to draw points beyond the band")
	}
	inSc.Radius, outSc.Radius = vg.Points(3), vg.Points(3)

	p.Add(inSc, outSc)

	// Add widens the axes to the data, so the range is fixed afterwards
	p.X.Min, p.X.Max = opts.Axes[0], opts.Axes[1]
	p.Y.Min, p.Y.Max = opts.Axes[0], opts.Axes[1]

	p.Legend.Add(fmt.Sprintf("Beyond limit (%d)", outside), outSc)
	p.Legend.Add(fmt.Sprintf("Inside interval (%.0f%%)", share*100), inSc)

	return save(p, width, width, path)
}
