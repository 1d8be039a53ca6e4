package metrics

import (
	"math"
)

// Band counts how many predictions fall within a tolerance of their reference value.
type Band struct {
	Limit   float64
	Inside  int
	Outside int
}

// Tolerance returns the Band of the predictions for the given limit. Values exactly on the
// limit count as outside.
func Tolerance(truth, preds []float64, limit float64) (Band, error) {
	if err := checkLengths(truth, preds); err != nil {
		return Band{}, err
	}

	b := Band{Limit: limit}
	for i := range truth {
		if math.Abs(preds[i]-truth[i]) < limit {
			b.Inside++
		} else {
			b.Outside++
		}
	}

	return b, nil
}

// Share returns the fraction of predictions inside the band.
func (b Band) Share() float64 {
	total := b.Inside + b.Outside
	if total == 0 {
		return 0
	}

	return float64(b.Inside) / float64(total)
}

// Residuals returns preds[i] - truth[i] for each prediction.
func Residuals(truth, preds []float64) ([]float64, error) {
	if err := checkLengths(truth, preds); err != nil {
		return nil, err
	}

	rs := make([]float64, len(truth))
	for i := range truth {
		rs[i] = preds[i] - truth[i]
	}

	return rs, nil
}
