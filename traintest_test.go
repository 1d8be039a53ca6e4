package ipa_test

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/florent-haffner/ipa-under-the-light/costfuncs"
	"github.com/florent-haffner/ipa-under-the-light/hyperparams"
	"github.com/florent-haffner/ipa-under-the-light/models"
	"github.com/florent-haffner/ipa-under-the-light/optimizers"
	"gonum.org/v1/gonum/floats"

	"math"
	"math/rand"
	"testing"
)

const length = 64

func dataset(t *testing.T, n int, seed int64) (ipa.Tensor, ipa.Tensor) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	x := ipa.NewTensor(n, 1, length)
	y := ipa.NewTensor(n, 1)
	for i := 0; i < n; i++ {
		peak := rng.Float64()
		for j := 0; j < length; j++ {
			d := float64(j)/length - 0.5
			x.Values[i*length+j] = peak*math.Exp(-d*d*40) + 0.01*rng.NormFloat64()
		}
		y.Values[i] = peak
	}

	return x, y
}

func loader(t *testing.T, x, y ipa.Tensor, batchSize int) *ipa.Loader {
	t.Helper()
	l, err := ipa.Data(x, y, batchSize, false, 0)
	if err != nil {
		t.Fatalf("failed to build loader: %v", err)
	}
	return l
}

func TestTrainLossIncludesPenalty(t *testing.T) {
	const λ = 0.01
	x, y := dataset(t, 3, 1)

	net := models.New(5)
	loss, err := ipa.Train(net, ipa.TrainArgs{
		Device:       ipa.Host(),
		Data:         loader(t, x, y, 3),
		L2:           λ,
		Cost:         costfuncs.MSE(),
		Opt:          optimizers.SGD(),
		LearningRate: 0.001,
	})
	if err != nil {
		t.Fatalf("train failed: %v", err)
	}

	// a twin built from the same seed sees the same weights and dropout as the single batch did
	twin := models.New(5)
	pred, err := twin.Evaluate(x, true)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	want := costfuncs.MSE().Cost(pred.Values, y.Values)
	var penalty float64
	for _, p := range twin.Params() {
		if p.Regularizable {
			penalty += floats.Norm(p.Values, 2)
		}
	}
	want += λ * penalty

	if penalty == 0 {
		t.Fatalf("expected a non-zero penalty")
	}
	if math.Abs(loss-want) > 1e-9*math.Max(1, math.Abs(want)) {
		t.Fatalf("expected loss %v (criterion + %v·%v), got %v", want, λ, penalty, loss)
	}
}

func TestPenaltyRaisesLoss(t *testing.T) {
	x, y := dataset(t, 4, 2)

	losses := make([]float64, 2)
	for i, λ := range []float64{0, 1} {
		loss, err := ipa.Train(models.New(9), ipa.TrainArgs{
			Data:         loader(t, x, y, 4),
			L2:           λ,
			Cost:         costfuncs.MSE(),
			Opt:          optimizers.Adam(),
			LearningRate: 0.001,
		})
		if err != nil {
			t.Fatalf("λ=%v: train failed: %v", λ, err)
		}
		losses[i] = loss
	}

	if !(losses[0] < losses[1]) {
		t.Fatalf("expected loss with λ=0 (%v) below loss with λ=1 (%v)", losses[0], losses[1])
	}
}

func TestTestReturnsMeanOfBatches(t *testing.T) {
	x, y := dataset(t, 5, 3)
	net := models.New(2)
	cf := costfuncs.MSE()

	data := loader(t, x, y, 2)
	if data.Len() != 3 {
		t.Fatalf("expected 3 batches, got %d", data.Len())
	}

	before := make([][]float64, 0)
	got, err := ipa.Test(net, ipa.CPU(), data, cf)
	if err != nil {
		t.Fatalf("test failed: %v", err)
	}
	for _, p := range net.Params() {
		before = append(before, append([]float64(nil), p.Values...))
	}

	var sum float64
	for start := 0; start < 5; start += 2 {
		end := start + 2
		if end > 5 {
			end = 5
		}

		pred, err := net.Evaluate(x.Slice(start, end), false)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		sum += cf.Cost(pred.Values, y.Slice(start, end).Values)
	}

	if want := sum / 3; math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected mean %v, got %v", want, got)
	}

	if _, err := ipa.Test(net, ipa.CPU(), data, cf); err != nil {
		t.Fatalf("test failed: %v", err)
	}
	for i, p := range net.Params() {
		if !floats.Equal(before[i], p.Values) {
			t.Fatalf("Test modified %s", p.Name)
		}
	}
}

// Without dropout, a training step and Test see the same function, so a small enough step of
// plain gradient descent over the whole set must lower the loss.
func TestTrainDescends(t *testing.T) {
	x, y := dataset(t, 16, 4)
	data := loader(t, x, y, 16)

	opts := models.DefaultOptions()
	opts.Dropout = 0
	net, err := models.NewWithOptions(1, opts)
	if err != nil {
		t.Fatalf("failed to build network: %v", err)
	}

	cf := costfuncs.MSE()
	prev, err := ipa.Test(net, ipa.CPU(), data, cf)
	if err != nil {
		t.Fatalf("test failed: %v", err)
	}

	for step := 0; step < 5; step++ {
		_, err := ipa.Train(net, ipa.TrainArgs{
			Device:       ipa.CPU(),
			Data:         data,
			Cost:         cf,
			Opt:          optimizers.SGD(),
			LearningRate: 1e-7,
		})
		if err != nil {
			t.Fatalf("step %d: train failed: %v", step, err)
		}

		loss, err := ipa.Test(net, ipa.CPU(), data, cf)
		if err != nil {
			t.Fatalf("test failed: %v", err)
		}
		if !(loss < prev) {
			t.Fatalf("step %d: expected the loss to fall below %v, got %v", step, prev, loss)
		}
		prev = loss
	}
}

func TestTrainEpochs(t *testing.T) {
	x, y := dataset(t, 32, 4)
	net := models.New(1)
	data := loader(t, x, y, 8)

	// one optimizer for the whole run, so Adam keeps its moments between epochs
	args := ipa.TrainArgs{
		Device:      ipa.CPU(),
		Data:        data,
		Cost:        costfuncs.MSE(),
		Opt:         optimizers.Adam(),
		Schedule:    ipa.NewSchedule(hyperparams.Constant(0.0001)),
		StatusEvery: 2,
	}
	var updates int
	args.Update = func(ipa.Result) { updates++ }

	for epoch := 0; epoch < 5; epoch++ {
		loss, err := ipa.Train(net, args)
		if err != nil {
			t.Fatalf("epoch %d: train failed: %v", epoch, err)
		}
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			t.Fatalf("epoch %d: loss is %v", epoch, loss)
		}
	}

	if args.Schedule.Epoch() != 5 {
		t.Fatalf("expected the schedule to be stepped once per epoch, got %d", args.Schedule.Epoch())
	}
	if updates != 5*2 {
		t.Fatalf("expected 10 status updates, got %d", updates)
	}

	final, err := ipa.Test(net, ipa.CPU(), data, costfuncs.MSE())
	if err != nil {
		t.Fatalf("test failed: %v", err)
	}
	if math.IsNaN(final) || math.IsInf(final, 0) {
		t.Fatalf("held-out loss is %v", final)
	}
}

func TestTrainErrors(t *testing.T) {
	empty := ipa.NewTensor(0, 1, length)
	data := loader(t, empty, ipa.NewTensor(0, 1), 4)

	args := ipa.TrainArgs{Data: data, Cost: costfuncs.MSE(), Opt: optimizers.SGD()}
	if _, err := ipa.Train(models.New(1), args); err != ipa.ErrNoBatches {
		t.Fatalf("expected ErrNoBatches, got %v", err)
	}
	if _, err := ipa.Test(models.New(1), ipa.Host(), data, costfuncs.MSE()); err != ipa.ErrNoBatches {
		t.Fatalf("expected ErrNoBatches from Test, got %v", err)
	}

	x, y := dataset(t, 2, 1)
	args.Data = loader(t, x, y, 2)
	args.L2 = 0.1
	args.Penalty = ipa.WeightNorm(0.1)
	if _, err := ipa.Train(models.New(1), args); err == nil {
		t.Fatalf("expected error when both L2 and Penalty are set")
	}

	args.Penalty = nil
	args.Cost = nil
	if _, err := ipa.Train(models.New(1), args); err == nil {
		t.Fatalf("expected error for missing cost function")
	}
}

func TestPredict(t *testing.T) {
	x, _ := dataset(t, 5, 6)
	net := models.New(1)

	preds, err := net.Predict(x)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if len(preds) != 5 {
		t.Fatalf("expected 5 predictions, got %d", len(preds))
	}

	out, err := net.Evaluate(x, false)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !floats.EqualApprox(out.Values, preds, 1e-12) {
		t.Fatalf("batched predictions differ from a single evaluation")
	}
}
