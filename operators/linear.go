package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/florent-haffner/ipa-under-the-light/initializers"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"math/rand"
)

type linear struct {
	name       string
	Out        int
	regularize bool

	// Width is the number of inputs per example; 0 until resolved
	Width int

	// W is stored as (Out, Width)
	W, B *ipa.Param

	wInit, bInit ipa.Initializer
	rng          *rand.Rand

	last ipa.Tensor
	set  bool
}

// Linear returns a fully connected layer over inputs of the shape (batch, width), giving
// outputs of the shape (batch, out).
//
// The width is resolved lazily: the Params are created from 'rng' on the first call to Evaluate
// (or Resolve), once the width of the input is known. After that, inputs of any other width are
// rejected.
func Linear(out int, rng *rand.Rand) *linear {
	return &linear{
		Out:        out,
		regularize: true,
		wInit:      initializers.DefaultKaimingUniform(),
		bInit:      initializers.FanInUniform(),
		rng:        rng,
	}
}

// Name sets the prefix of the names of the Params.
func (l *linear) Name(name string) *linear {
	l.name = name
	return l
}

// Regularize sets whether the weights are subject to the weight penalty. It defaults to true.
func (l *linear) Regularize(r bool) *linear {
	l.regularize = r
	return l
}

// Init sets the Initializers of the weights and biases. Either can be nil to keep the default.
func (l *linear) Init(weights, biases ipa.Initializer) *linear {
	if weights != nil {
		l.wInit = weights
	}
	if biases != nil {
		l.bInit = biases
	}
	return l
}

func (l *linear) TypeString() string {
	return "linear"
}

// Resolved returns whether the width of the layer has been fixed.
func (l *linear) Resolved() bool {
	return l.Width != 0
}

// Resolve fixes the width of the layer and creates its Params. Resolving again with the same
// width does nothing; with a different width it returns a SizeMismatchError.
func (l *linear) Resolve(width int) error {
	if l.Resolved() {
		if width != l.Width {
			return errors.Wrapf(ipa.SizeMismatchError{What: l.name + " input width", Expected: l.Width, Got: width},
				"Layer has already been resolved")
		}
		return nil
	}

	if width < 1 {
		return errors.Errorf("Width must be ≥ 1 (got %d)", width)
	} else if l.Out < 1 {
		return errors.Errorf("Output size must be ≥ 1 (got %d)", l.Out)
	} else if l.rng == nil {
		return ipa.NilArg("Random source")
	}

	l.W = ipa.NewParam(l.name+".weight", l.Out*width, l.regularize)
	l.wInit.Set(width, l.Out, l.W.Values, l.rng)

	l.B = ipa.NewParam(l.name+".bias", l.Out, false)
	l.bInit.Set(width, l.Out, l.B.Values, l.rng)

	l.Width = width
	return nil
}

// Params returns nothing until the layer has been resolved.
func (l *linear) Params() []*ipa.Param {
	if !l.Resolved() {
		return nil
	}

	return []*ipa.Param{l.W, l.B}
}

func (l *linear) weights() *mat.Dense {
	return mat.NewDense(l.Out, l.Width, l.W.Values)
}

func (l *linear) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	if err := in.CheckRank(2); err != nil {
		return ipa.Tensor{}, errors.Wrapf(err, "%s: bad input dimensions %v", l.name, in.Dims)
	}

	if err := l.Resolve(in.Dims[1]); err != nil {
		return ipa.Tensor{}, err
	}

	batch := in.Dims[0]
	out := ipa.NewTensor(batch, l.Out)
	out.Dev = in.Dev
	if batch == 0 {
		return out, nil
	}

	x := mat.NewDense(batch, l.Width, in.Values)
	o := mat.NewDense(batch, l.Out, out.Values)
	o.Mul(x, l.weights().T())

	for b := 0; b < batch; b++ {
		floats.Add(o.RawRowView(b), l.B.Values)
	}

	l.last, l.set = in, train
	return out, nil
}

func (l *linear) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	if !l.Resolved() {
		return ipa.Tensor{}, errors.Wrapf(ipa.ErrUnresolved, "%s", l.name)
	} else if !l.set {
		return ipa.Tensor{}, errNoTraining(l.name)
	}

	batch := l.last.Dims[0]
	if deltas.Size() != batch*l.Out {
		return ipa.Tensor{}, ipa.SizeMismatchError{What: l.name + " deltas", Expected: batch * l.Out, Got: deltas.Size()}
	}

	ds := l.last.Like()
	if batch == 0 {
		l.set = false
		return ds, nil
	}

	d := mat.NewDense(batch, l.Out, deltas.Values)
	x := mat.NewDense(batch, l.Width, l.last.Values)

	dw := mat.NewDense(l.Out, l.Width, l.W.Grads)
	var grad mat.Dense
	grad.Mul(d.T(), x)
	dw.Add(dw, &grad)

	for b := 0; b < batch; b++ {
		floats.Add(l.B.Grads, d.RawRowView(b))
	}

	dx := mat.NewDense(batch, l.Width, ds.Values)
	dx.Mul(d, l.weights())

	l.last, l.set = ipa.Tensor{}, false
	return ds, nil
}
