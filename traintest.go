package ipa

import (
	"github.com/pkg/errors"
)

// DefaultStatusEvery is the number of batches between status updates when TrainArgs.Update is
// set and StatusEvery is not.
const DefaultStatusEvery int = 100

// A wrapper for sending back the progress of training
type Result struct {
	// The batch the result is being sent after
	Batch int

	// Average loss (criterion and penalty) over the batches since the last Result
	Cost float64
}

// TrainArgs holds the arguments to Train. Fields that are not marked optional are required.
type TrainArgs struct {
	// Device is where the batches are placed before being given to the network
	Device Device

	Data *Loader

	// L2 is the coefficient of the default weight penalty, WeightNorm. It is applied to every
	// Param marked as regularizable.
	L2 float64

	// Penalty replaces the default weight penalty. Optional; L2 must be zero if it is set.
	Penalty Penalty

	Cost CostFunction
	Opt  Optimizer

	// LearningRate is used when Schedule is nil.
	LearningRate float64

	// Schedule provides the learning rate for the epoch, and is stepped once after all batches.
	// Optional.
	Schedule *Schedule

	// Update receives a Result every StatusEvery batches. Optional.
	Update      func(Result)
	StatusEvery int
}

func (args *TrainArgs) check() error {
	if args.Data == nil {
		return NilArgError{"Data"}
	} else if args.Cost == nil {
		return NilArgError{"Cost"}
	} else if args.Opt == nil {
		return NilArgError{"Opt"}
	} else if args.Penalty != nil && args.L2 != 0 {
		return errors.Errorf("Both Penalty and L2 (%v) are set", args.L2)
	} else if args.L2 < 0 {
		return errors.Errorf("L2 must be ≥ 0 (got %v)", args.L2)
	}

	if args.Penalty == nil {
		args.Penalty = WeightNorm(args.L2)
	}

	if args.StatusEvery <= 0 {
		args.StatusEvery = DefaultStatusEvery
	}

	return nil
}

// Train runs one epoch of training over the batches of args.Data, in order. For each batch the
// gradients are reset, the network is evaluated in training mode, the criterion and the weight
// penalty are computed, deltas are propagated back and the Optimizer is run on every Param.
//
// Train returns the loss of the last batch (criterion plus penalty), not an average over the
// epoch. If a Schedule is given, it is stepped once, after all batches.
func Train(net Operator, args TrainArgs) (float64, error) {
	if net == nil {
		return 0, NilArgError{"Network"}
	}
	if err := args.check(); err != nil {
		return 0, err
	}

	if args.Data.Len() == 0 {
		return 0, ErrNoBatches
	}

	lr := args.LearningRate
	if args.Schedule != nil {
		lr = args.Schedule.Rate()
	}

	var last, statusCost float64
	var statusSize int

	err := args.Data.Each(func(i int, b Batch) error {
		ZeroGrads(net.Params())

		x := args.Device.Place(b.X)
		y := args.Device.Place(b.Y)

		pred, err := net.Evaluate(x, true)
		if err != nil {
			return errors.Wrapf(err, "Failed to evaluate network on batch %d", i)
		} else if pred.Size() != y.Size() {
			return errors.Wrapf(SizeMismatchError{"predictions", y.Size(), pred.Size()}, "Batch %d", i)
		}

		loss := args.Cost.Cost(pred.Values, y.Values)

		// the lazily resolved Params only exist once the network has been evaluated
		params := net.Params()
		loss += Regularize(params, args.Penalty)

		deltas := pred.Like()
		copy(deltas.Values, args.Cost.Derivs(pred.Values, y.Values))

		if _, err := net.InputDeltas(deltas); err != nil {
			return errors.Wrapf(err, "Failed to get deltas on batch %d", i)
		}

		for _, p := range params {
			p := p
			grad := func(j int) float64 { return p.Grads[j] }
			add := func(j int, d float64) { p.Values[j] += d }

			if err := args.Opt.Run(p, len(p.Values), grad, add, lr); err != nil {
				return errors.Wrapf(err, "Optimizer failed on %q, batch %d", p.Name, i)
			}
		}

		last = loss

		if args.Update != nil {
			statusCost += loss
			statusSize++

			if statusSize == args.StatusEvery {
				args.Update(Result{Batch: i, Cost: statusCost / float64(statusSize)})
				statusCost, statusSize = 0, 0
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	if args.Schedule != nil {
		args.Schedule.Step()
	}

	return last, nil
}

// Test evaluates the network on every batch of 'data' in inference mode, and returns the mean of
// the per-batch criterion values. No weight penalty is included and no Param is modified.
func Test(net Operator, dev Device, data *Loader, cf CostFunction) (float64, error) {
	if net == nil {
		return 0, NilArgError{"Network"}
	} else if data == nil {
		return 0, NilArgError{"Data"}
	} else if cf == nil {
		return 0, NilArgError{"Cost"}
	}

	if data.Len() == 0 {
		return 0, ErrNoBatches
	}

	var sum float64
	err := data.Each(func(i int, b Batch) error {
		pred, err := net.Evaluate(dev.Place(b.X), false)
		if err != nil {
			return errors.Wrapf(err, "Failed to evaluate network on batch %d", i)
		} else if pred.Size() != b.Y.Size() {
			return errors.Wrapf(SizeMismatchError{"predictions", b.Y.Size(), pred.Size()}, "Batch %d", i)
		}

		sum += cf.Cost(pred.Values, b.Y.Values)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return sum / float64(data.Len()), nil
}

// Predict evaluates the network in inference mode on 'x', 'batchSize' examples at a time, and
// returns the outputs of all examples in order. A batch size of 0 uses DefaultBatchSize.
func Predict(net Operator, dev Device, x Tensor, batchSize int) ([]float64, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	n := x.Batch()
	outs := make([]float64, 0, n)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}

		pred, err := net.Evaluate(dev.Place(x.Slice(start, end)), false)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to predict examples [%d, %d)", start, end)
		}

		outs = append(outs, pred.Values...)
	}

	return outs, nil
}
