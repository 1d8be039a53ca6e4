package main

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"math"
	"math/rand"
)

// range of the synthetic labels, in the units of the validation chart
const (
	labelMin float64 = 7
	labelMax float64 = 16
)

// spectral range covered by the synthetic spectra, in cm-1
const (
	firstWavenumber float64 = 9000
	lastWavenumber  float64 = 4000
)

// band is an absorption band: a gaussian peak at a fraction of the spectral range
type band struct {
	centre, width float64

	// weight of the label in the height of the band; the rest is drawn at random
	labelWeight float64
}

var bands = []band{
	{centre: 0.15, width: 0.03, labelWeight: 0},
	{centre: 0.38, width: 0.05, labelWeight: 0.8},
	{centre: 0.55, width: 0.02, labelWeight: 0.3},
	{centre: 0.8, width: 0.06, labelWeight: 0},
}

// dataset holds generated spectra with the quantity that they encode.
type dataset struct {
	spectra     *mat.Dense
	labels      []float64
	wavenumbers []float64
}

// synthesize returns 'n' spectra of 'length' points, in which the heights of some bands depend on
// a label drawn uniformly from [labelMin, labelMax]. Every spectrum also has a random sloped
// baseline and gaussian noise with standard deviation 'noise'.
func synthesize(n, length int, noise float64, seed int64) (*dataset, error) {
	if n <= 0 || length <= 1 {
		return nil, errors.Errorf("Bad dataset size: %d spectra of %d points", n, length)
	}

	rng := rand.New(rand.NewSource(seed))

	ds := &dataset{
		spectra:     mat.NewDense(n, length, nil),
		labels:      make([]float64, n),
		wavenumbers: make([]float64, length),
	}

	step := (lastWavenumber - firstWavenumber) / float64(length-1)
	for j := range ds.wavenumbers {
		ds.wavenumbers[j] = firstWavenumber + step*float64(j)
	}

	row := make([]float64, length)
	for i := 0; i < n; i++ {
		label := labelMin + (labelMax-labelMin)*rng.Float64()
		ds.labels[i] = label
		frac := (label - labelMin) / (labelMax - labelMin)

		offset := 0.1 * rng.Float64()
		slope := 0.05 * (rng.Float64() - 0.5)

		for j := range row {
			row[j] = offset + slope*float64(j)/float64(length)
		}

		for _, b := range bands {
			height := b.labelWeight*frac + (1-b.labelWeight)*rng.Float64()
			for j := range row {
				d := (float64(j)/float64(length-1) - b.centre) / b.width
				row[j] += height * math.Exp(-d*d/2)
			}
		}

		for j := range row {
			row[j] += noise * rng.NormFloat64()
		}

		ds.spectra.SetRow(i, row)
	}

	return ds, nil
}

// tensor returns the spectra as a Tensor of the shape (n, 1, length).
func (ds *dataset) tensor() ipa.Tensor {
	n, length := ds.spectra.Dims()
	t := ipa.NewTensor(n, 1, length)
	for i := 0; i < n; i++ {
		mat.Row(t.Values[i*length:(i+1)*length], i, ds.spectra)
	}
	return t
}

// split returns the indexes of the training and test examples, with a fraction 'testFraction' of
// the 'n' examples (at least one) drawn for testing.
func split(n int, testFraction float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	nTest := int(math.Round(testFraction * float64(n)))
	if nTest < 1 {
		nTest = 1
	} else if nTest >= n {
		nTest = n - 1
	}

	return perm[nTest:], perm[:nTest]
}

// pick returns the values at the given indexes.
func pick(vs []float64, indexes []int) []float64 {
	out := make([]float64, len(indexes))
	for i, idx := range indexes {
		out[i] = vs[idx]
	}
	return out
}
