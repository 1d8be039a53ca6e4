package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/florent-haffner/ipa-under-the-light/initializers"
	"github.com/florent-haffner/ipa-under-the-light/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"math/rand"
)

type convConstructor struct {
	name   string
	noBias bool

	wInit, bInit ipa.Initializer
}

type conv struct {
	*convConstructor

	In, Out int
	Kernel  int

	// Str is short for stride
	Str     int
	Padding int

	// weights are stored as (Out, In, Kernel), so that they can be viewed as an
	// (Out × In·Kernel) matrix. B is nil if the convolution has no biases.
	W, B *ipa.Param

	// from the last training Evaluate
	last ipa.Tensor
	cols []*mat.Dense
}

// Conv returns a one-dimensional convolution over inputs of the shape (batch, in, positions),
// giving outputs of the shape (batch, out, positions').
//
// Conv does not return a completed Operator. Other methods can be called to further customize
// it -- they return *conv so they can be chained -- before it is completed by Finalize.
func Conv(in, out, kernel int) *conv {
	return &conv{
		convConstructor: &convConstructor{
			wInit: initializers.DefaultKaimingUniform(),
			bInit: initializers.FanInUniform(),
		},
		In:      in,
		Out:     out,
		Kernel:  kernel,
		Str:     int(getDefault("conv-stride")),
		Padding: int(getDefault("conv-padding")),
	}
}

func (c *conv) assertConstructing() {
	if c.convConstructor == nil {
		panic("convolutional Operator has already been finalized")
	}
}

// Stride sets the space between the starts of filter regions. Stride defaults to 1, which can be
// changed by SetDefault("conv-stride"). Stride will panic if called after the Operator has been
// Finalized.
func (c *conv) Stride(s int) *conv {
	c.assertConstructing()
	c.Str = s
	return c
}

// Pad sets the number of zeros added to both ends of each channel. Pad defaults to none,
// which can be changed by SetDefault("conv-padding"). Pad will panic if called after the
// Operator has been Finalized.
func (c *conv) Pad(p int) *conv {
	c.assertConstructing()
	c.Padding = p
	return c
}

// Name sets the prefix of the names of the Params. Name will panic if called after the Operator
// has been Finalized.
func (c *conv) Name(name string) *conv {
	c.assertConstructing()
	c.name = name
	return c
}

// NoBias removes the biases from the convolution.
func (c *conv) NoBias() *conv {
	c.assertConstructing()
	c.noBias = true
	return c
}

// Init sets the Initializers of the weights and biases. Either can be nil to keep the default
// (He-uniform weights and U(±1/√fanIn) biases).
func (c *conv) Init(weights, biases ipa.Initializer) *conv {
	c.assertConstructing()
	if weights != nil {
		c.wInit = weights
	}
	if biases != nil {
		c.bInit = biases
	}
	return c
}

// Finalize checks the settings of the convolution and initializes its Params from 'rng'.
func (c *conv) Finalize(rng *rand.Rand) (*conv, error) {
	c.assertConstructing()

	if rng == nil {
		return nil, ipa.NilArg("Random source")
	} else if c.In < 1 || c.Out < 1 || c.Kernel < 1 {
		return nil, errors.Errorf("Channels and kernel must be ≥ 1 (in: %d, out: %d, kernel: %d)", c.In, c.Out, c.Kernel)
	} else if c.Str < 1 {
		return nil, errors.Errorf("Stride must be ≥ 1 (got %d)", c.Str)
	} else if c.Padding < 0 {
		return nil, errors.Errorf("Padding must be ≥ 0 (got %d)", c.Padding)
	}

	fanIn := c.In * c.Kernel
	c.W = ipa.NewParam(c.name+".weight", c.Out*fanIn, true)
	c.wInit.Set(fanIn, c.Out*c.Kernel, c.W.Values, rng)

	if !c.noBias {
		c.B = ipa.NewParam(c.name+".bias", c.Out, false)
		c.bInit.Set(fanIn, c.Out*c.Kernel, c.B.Values, rng)
	}

	c.convConstructor = nil
	return c, nil
}

func (c *conv) TypeString() string {
	return "conv1d"
}

// OutputLength returns the number of positions in the output for an input with 'length'
// positions. It returns an error if the input is shorter than the kernel.
func (c *conv) OutputLength(length int) (int, error) {
	return windows(length+2*c.Padding, c.Kernel, c.Str)
}

func windows(length, kernel, stride int) (int, error) {
	if length < kernel {
		return 0, errors.Errorf("Input length %d is shorter than kernel %d", length, kernel)
	}

	return (length-kernel)/stride + 1, nil
}

func (c *conv) Params() []*ipa.Param {
	if c.B == nil {
		return []*ipa.Param{c.W}
	}

	return []*ipa.Param{c.W, c.B}
}

func (c *conv) weights() *mat.Dense {
	return mat.NewDense(c.Out, c.In*c.Kernel, c.W.Values)
}

// im2col lays out the receptive field of every output position as a column, so that the
// convolution of one example is a single matrix product.
func (c *conv) im2col(x *mat.Dense, lout int) *mat.Dense {
	_, length := x.Dims()
	col := mat.NewDense(c.In*c.Kernel, lout, nil)

	for ci := 0; ci < c.In; ci++ {
		row := x.RawRowView(ci)
		for k := 0; k < c.Kernel; k++ {
			dst := col.RawRowView(ci*c.Kernel + k)
			for o := range dst {
				if pos := o*c.Str + k - c.Padding; pos >= 0 && pos < length {
					dst[o] = row[pos]
				}
			}
		}
	}

	return col
}

// col2im adds the deltas of each receptive field column back onto the input positions.
func (c *conv) col2im(dcol *mat.Dense, dx *mat.Dense) {
	_, length := dx.Dims()

	for ci := 0; ci < c.In; ci++ {
		row := dx.RawRowView(ci)
		for k := 0; k < c.Kernel; k++ {
			src := dcol.RawRowView(ci*c.Kernel + k)
			for o, d := range src {
				if pos := o*c.Str + k - c.Padding; pos >= 0 && pos < length {
					row[pos] += d
				}
			}
		}
	}
}

func (c *conv) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	if c.convConstructor != nil {
		return ipa.Tensor{}, errors.Errorf("convolutional Operator has not been finalized")
	}

	if err := in.CheckRank(3); err != nil {
		return ipa.Tensor{}, errors.Wrapf(err, "%s: bad input dimensions %v", c.W.Name, in.Dims)
	} else if in.Dims[1] != c.In {
		return ipa.Tensor{}, ipa.SizeMismatchError{What: c.W.Name + " input channels", Expected: c.In, Got: in.Dims[1]}
	}

	lout, err := c.OutputLength(in.Dims[2])
	if err != nil {
		return ipa.Tensor{}, errors.Wrapf(err, "%s", c.W.Name)
	}

	batch := in.Dims[0]
	out := ipa.NewTensor(batch, c.Out, lout)
	out.Dev = in.Dev

	w := c.weights()
	cols := make([]*mat.Dense, batch)

	err = utils.MultiThread(0, batch, func(b int) error {
		col := c.im2col(in.Example(b), lout)
		o := out.Example(b)
		o.Mul(w, col)

		if c.B != nil {
			for r := 0; r < c.Out; r++ {
				floats.AddConst(c.B.Values[r], o.RawRowView(r))
			}
		}

		cols[b] = col
		return nil
	}, 1, in.Dev.Workers())
	if err != nil {
		return ipa.Tensor{}, err
	}

	if train {
		c.last, c.cols = in, cols
	} else {
		c.last, c.cols = ipa.Tensor{}, nil
	}

	return out, nil
}

func (c *conv) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	if c.cols == nil {
		return ipa.Tensor{}, errNoTraining(c.W.Name)
	}

	batch := c.last.Dims[0]
	_, lout := c.cols[0].Dims()
	if err := deltas.CheckRank(3); err != nil {
		return ipa.Tensor{}, errors.Wrapf(err, "%s: bad delta dimensions %v", c.W.Name, deltas.Dims)
	} else if deltas.Dims[0] != batch || deltas.Dims[1] != c.Out || deltas.Dims[2] != lout {
		return ipa.Tensor{}, ipa.SizeMismatchError{What: c.W.Name + " deltas", Expected: batch * c.Out * lout, Got: deltas.Size()}
	}

	dx := c.last.Like()
	w := c.weights()

	// gradients are kept per example and summed in order afterwards, so that the result doesn't
	// depend on the number of workers
	dws := make([]*mat.Dense, batch)
	dbs := make([][]float64, batch)

	err := utils.MultiThread(0, batch, func(b int) error {
		d := deltas.Example(b)

		dw := mat.NewDense(c.Out, c.In*c.Kernel, nil)
		dw.Mul(d, c.cols[b].T())
		dws[b] = dw

		if c.B != nil {
			db := make([]float64, c.Out)
			for r := range db {
				db[r] = floats.Sum(d.RawRowView(r))
			}
			dbs[b] = db
		}

		var dcol mat.Dense
		dcol.Mul(w.T(), d)
		c.col2im(&dcol, dx.Example(b))
		return nil
	}, 1, deltas.Dev.Workers())
	if err != nil {
		return ipa.Tensor{}, err
	}

	for b := 0; b < batch; b++ {
		floats.Add(c.W.Grads, dws[b].RawMatrix().Data)
		if c.B != nil {
			floats.Add(c.B.Grads, dbs[b])
		}
	}

	c.last, c.cols = ipa.Tensor{}, nil
	return dx, nil
}
