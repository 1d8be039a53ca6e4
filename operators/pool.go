package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/florent-haffner/ipa-under-the-light/utils"
	"github.com/pkg/errors"

	"math"
)

type pool struct {
	Kernel int
	// Str is short for stride
	Str int

	lastDims []int
	dev      ipa.Device
	set      bool
}

type avgPool struct {
	pool
}

type maxPool struct {
	pool

	// the index (in inputs) of the highest value of each output
	switches []int
}

// MaxPool returns a one-dimensional max pooling Operator over inputs of the shape
// (batch, channels, positions). The stride is equal to the kernel unless set by Stride. Positions
// that don't fill a whole window at the end are dropped.
func MaxPool(kernel int) *maxPool {
	return &maxPool{pool: pool{Kernel: kernel, Str: kernel}}
}

// AvgPool returns a one-dimensional average pooling Operator, with the same layout as MaxPool.
func AvgPool(kernel int) *avgPool {
	return &avgPool{pool{Kernel: kernel, Str: kernel}}
}

// Stride sets the space between the starts of pooling windows.
func (p *maxPool) Stride(s int) *maxPool {
	p.Str = s
	return p
}

// Stride sets the space between the starts of pooling windows.
func (p *avgPool) Stride(s int) *avgPool {
	p.Str = s
	return p
}

func (p *maxPool) TypeString() string {
	return "max-pool"
}

func (p *avgPool) TypeString() string {
	return "avg-pool"
}

func (p *pool) Params() []*ipa.Param {
	return nil
}

// OutputLength returns the number of positions in the output for an input with 'length'
// positions.
func (p *pool) OutputLength(length int) (int, error) {
	if p.Kernel < 1 || p.Str < 1 {
		return 0, errors.Errorf("Pool kernel and stride must be ≥ 1 (kernel: %d, stride: %d)", p.Kernel, p.Str)
	}

	return windows(length, p.Kernel, p.Str)
}

func (p *pool) check(in ipa.Tensor) (int, error) {
	if err := in.CheckRank(3); err != nil {
		return 0, errors.Wrapf(err, "Bad pooling input dimensions %v", in.Dims)
	}

	lout, err := p.OutputLength(in.Dims[2])
	if err != nil {
		return 0, errors.Wrapf(err, "Pooling failed")
	}

	return lout, nil
}

func (p *maxPool) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	lout, err := p.check(in)
	if err != nil {
		return ipa.Tensor{}, err
	}

	batch, chans, length := in.Dims[0], in.Dims[1], in.Dims[2]
	out := ipa.NewTensor(batch, chans, lout)
	out.Dev = in.Dev
	switches := make([]int, out.Size())

	err = utils.MultiThread(0, batch*chans, func(bc int) error {
		src := bc * length
		dst := bc * lout
		for o := 0; o < lout; o++ {
			best, arg := math.Inf(-1), -1
			for k := 0; k < p.Kernel; k++ {
				i := src + o*p.Str + k
				if v := in.Values[i]; v > best || arg == -1 {
					best, arg = v, i
				}
			}

			out.Values[dst+o] = best
			switches[dst+o] = arg
		}
		return nil
	}, 4, in.Dev.Workers())
	if err != nil {
		return ipa.Tensor{}, err
	}

	p.lastDims, p.dev, p.set = in.Dims, in.Dev, train
	p.switches = switches
	return out, nil
}

func (p *maxPool) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	if !p.set {
		return ipa.Tensor{}, errNoTraining(p.TypeString())
	} else if deltas.Size() != len(p.switches) {
		return ipa.Tensor{}, ipa.SizeMismatchError{What: "max-pool deltas", Expected: len(p.switches), Got: deltas.Size()}
	}

	ds := ipa.NewTensor(p.lastDims...)
	ds.Dev = p.dev
	for o, i := range p.switches {
		ds.Values[i] += deltas.Values[o]
	}

	p.set, p.switches = false, nil
	return ds, nil
}

func (p *avgPool) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	lout, err := p.check(in)
	if err != nil {
		return ipa.Tensor{}, err
	}

	batch, chans, length := in.Dims[0], in.Dims[1], in.Dims[2]
	out := ipa.NewTensor(batch, chans, lout)
	out.Dev = in.Dev

	for bc := 0; bc < batch*chans; bc++ {
		for o := 0; o < lout; o++ {
			var sum float64
			for k := 0; k < p.Kernel; k++ {
				sum += in.Values[bc*length+o*p.Str+k]
			}
			out.Values[bc*lout+o] = sum / float64(p.Kernel)
		}
	}

	p.lastDims, p.dev, p.set = in.Dims, in.Dev, train
	return out, nil
}

func (p *avgPool) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	if !p.set {
		return ipa.Tensor{}, errNoTraining(p.TypeString())
	}

	batch, chans, length := p.lastDims[0], p.lastDims[1], p.lastDims[2]
	lout, _ := p.OutputLength(length)
	if deltas.Size() != batch*chans*lout {
		return ipa.Tensor{}, ipa.SizeMismatchError{What: "avg-pool deltas", Expected: batch * chans * lout, Got: deltas.Size()}
	}

	ds := ipa.NewTensor(p.lastDims...)
	ds.Dev = p.dev
	for bc := 0; bc < batch*chans; bc++ {
		for o := 0; o < lout; o++ {
			d := deltas.Values[bc*lout+o] / float64(p.Kernel)
			for k := 0; k < p.Kernel; k++ {
				ds.Values[bc*length+o*p.Str+k] += d
			}
		}
	}

	p.set = false
	return ds, nil
}
