package main

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/florent-haffner/ipa-under-the-light/config"
	"github.com/florent-haffner/ipa-under-the-light/metrics"
	"github.com/florent-haffner/ipa-under-the-light/plotting"
	"github.com/florent-haffner/ipa-under-the-light/preprocess"
	"github.com/pkg/errors"

	"context"
	"io"
	"log"
	"path/filepath"
)

// the number of spectra drawn in the spectra chart
const plottedSpectra int = 10

// history holds the losses of each epoch.
type history struct {
	train, test []float64
}

// run generates the data, trains a network for cfg.Epochs epochs and writes the report to 'w'
// and the charts to cfg.OutDir. A cancelled context stops training after the current epoch;
// the network trained so far is still scored.
func run(ctx context.Context, cfg *config.Config, w io.Writer) error {
	ds, err := synthesize(cfg.Samples, cfg.Length, cfg.Noise, cfg.Seed)
	if err != nil {
		return err
	}

	dev := cfg.Device()
	log.Printf("samples=%d length=%d device=%s threads=%d", cfg.Samples, cfg.Length, dev, dev.Workers())

	trainIdx, testIdx := split(cfg.Samples, cfg.TestFraction, cfg.Seed)

	// labels are scaled to [0, 1] from the training set only
	scaler := preprocess.MinMax()
	if err := scaler.Fit(preprocess.Column(pick(ds.labels, trainIdx))); err != nil {
		return errors.Wrapf(err, "Failed to fit label scaler")
	}
	yTrain := scaler.TransformVec(pick(ds.labels, trainIdx))
	yTest := scaler.TransformVec(pick(ds.labels, testIdx))

	x := ds.tensor()
	xTrain := dev.Place(x.Rows(trainIdx))
	xTest := dev.Place(x.Rows(testIdx))

	trainData, err := loader(xTrain, yTrain, cfg.BatchSize, cfg.Shuffle, cfg.Seed)
	if err != nil {
		return errors.Wrapf(err, "Training set")
	}
	testData, err := loader(xTest, yTest, cfg.BatchSize, false, 0)
	if err != nil {
		return errors.Wrapf(err, "Test set")
	}

	net, err := cfg.NewModel()
	if err != nil {
		return err
	}

	args, err := cfg.TrainArgs(trainData, func(r ipa.Result) {
		log.Printf("batch=%d loss=%.4f", r.Batch, r.Cost)
	})
	if err != nil {
		return err
	}

	var hist history
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if ctx.Err() != nil {
			log.Printf("stopping after %d epochs: %v", epoch, ctx.Err())
			break
		}

		rate := args.Schedule.Rate()

		trainLoss, err := ipa.Train(net, args)
		if err != nil {
			return errors.Wrapf(err, "Training failed on epoch %d", epoch)
		}
		testLoss, err := ipa.Test(net, dev, testData, args.Cost)
		if err != nil {
			return errors.Wrapf(err, "Testing failed on epoch %d", epoch)
		}

		hist.train = append(hist.train, trainLoss)
		hist.test = append(hist.test, testLoss)
		log.Printf("epoch=%d lr=%.5f train_loss=%.4f test_loss=%.4f", epoch, rate, trainLoss, testLoss)
	}

	if len(hist.train) == 0 {
		return errors.Errorf("No epoch was run")
	}

	rmsep, r2, preds, err := metrics.CNNPrediction(net, scaler, xTrain, xTest, yTrain, yTest, w)
	if err != nil {
		return errors.Wrapf(err, "Failed to score network")
	}

	return charts(cfg.OutDir, ds, hist, scaler.InverseTransform(yTest), scaler.InverseTransform(preds), rmsep, r2)
}

func loader(x ipa.Tensor, y []float64, batchSize int, shuffle bool, seed int64) (*ipa.Loader, error) {
	labels, err := ipa.FromValues(y, len(y), 1)
	if err != nil {
		return nil, err
	}
	return ipa.Data(x, x.Dev.Place(labels), batchSize, shuffle, seed)
}

// charts writes every chart of the run to 'dir'. Labels and predictions are in their original
// units.
func charts(dir string, ds *dataset, hist history, labels, preds []float64, rmsep, r2 float64) error {
	path := func(name string) string { return filepath.Join(dir, name) }

	if err := plotting.TrainingHistory(hist.train, hist.test, "", path("training_history.png")); err != nil {
		return err
	}
	if err := plotting.History(hist.train, hist.test, rmsep, r2, false, path("history.png")); err != nil {
		return err
	}
	if err := plotting.Validation(labels, preds, plotting.ValidationOptions{}, path("validation.png")); err != nil {
		return err
	}
	if err := plotting.ErrorHistogram(labels, preds, plotting.HistogramOptions{Deviation: 4}, path("errors.png")); err != nil {
		return err
	}

	n, length := ds.spectra.Dims()
	if n > plottedSpectra {
		n = plottedSpectra
	}
	if err := plotting.Spectra(ds.spectra.Slice(0, n, 0, length), ds.wavenumbers, plotting.Style{}, path("spectra.png")); err != nil {
		return err
	}

	kept, err := plotting.ExplorePCA(ds.spectra, 0.99, path("pca.png"))
	if err != nil {
		return err
	}

	log.Printf("charts written to %s (%d principal components explain 99%% of the variance)", dir, kept)
	return nil
}
