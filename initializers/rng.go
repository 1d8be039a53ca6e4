package initializers

import "math/rand"

// RNG draws single weights from a distribution. All randomness comes from 'rng', so that an
// initialization is reproducible from the network seed.
type RNG interface {
	Gen(rng *rand.Rand) float64
}

// Interval samples uniformly from [Lo, Hi).
type Interval struct {
	Lo, Hi float64
}

// UniformRNG returns an Interval over the package defaults "uniform-lower" and "uniform-upper".
func UniformRNG() *Interval {
	return &Interval{Lo: getDefault("uniform-lower"), Hi: getDefault("uniform-upper")}
}

// Bounds replaces the interval.
func (u *Interval) Bounds(lo, hi float64) *Interval {
	u.Lo, u.Hi = lo, hi
	return u
}

func (u *Interval) Gen(rng *rand.Rand) float64 {
	return u.Lo + (u.Hi-u.Lo)*rng.Float64()
}

// Gaussian samples from a normal distribution. If Cutoff is positive, draws further than Cutoff
// standard deviations from the mean are rejected and redrawn.
type Gaussian struct {
	Mean, Std float64
	Cutoff    float64
}

// Normal returns an untruncated Gaussian using the defaults "normal-mean" and "normal-sd".
func Normal() *Gaussian {
	return &Gaussian{Mean: getDefault("normal-mean"), Std: getDefault("normal-sd")}
}

// TruncNormal is Normal, cut at two standard deviations.
func TruncNormal() *Gaussian {
	return Normal().Trunc(2)
}

// SD sets the standard deviation.
func (g *Gaussian) SD(std float64) *Gaussian {
	g.Std = std
	return g
}

// Around sets the mean.
func (g *Gaussian) Around(mean float64) *Gaussian {
	g.Mean = mean
	return g
}

// Trunc sets the cutoff, in standard deviations. It panics if 'sds' is not positive.
func (g *Gaussian) Trunc(sds float64) *Gaussian {
	if sds <= 0 {
		panic("initializers: truncation must be > 0 standard deviations")
	}

	g.Cutoff = sds
	return g
}

func (g *Gaussian) Gen(rng *rand.Rand) float64 {
	z := rng.NormFloat64()
	for g.Cutoff > 0 && (z > g.Cutoff || z < -g.Cutoff) {
		z = rng.NormFloat64()
	}

	return g.Mean + g.Std*z
}
