// Package metrics scores regression predictions against reference values.
package metrics

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"fmt"
	"io"
	"math"
)

// Predictor gives one prediction per example of a batch.
type Predictor interface {
	Predict(x ipa.Tensor) ([]float64, error)
}

// InverseTransformer maps scaled values back to their original units.
type InverseTransformer interface {
	InverseTransform(vs []float64) []float64
}

func checkLengths(truth, preds []float64) error {
	if len(truth) != len(preds) {
		return ipa.SizeMismatchError{What: "predictions", Expected: len(truth), Got: len(preds)}
	} else if len(truth) == 0 {
		return errors.Errorf("No values to score")
	}
	return nil
}

// MSE returns the mean squared error of the predictions.
func MSE(truth, preds []float64) (float64, error) {
	if err := checkLengths(truth, preds); err != nil {
		return 0, err
	}

	d := floats.Distance(truth, preds, 2)
	return d * d / float64(len(truth)), nil
}

// RMSE returns the root mean squared error of the predictions.
func RMSE(truth, preds []float64) (float64, error) {
	mse, err := MSE(truth, preds)
	return math.Sqrt(mse), err
}

// R2 returns the coefficient of determination of the predictions, 1 - SSres/SStot. It can be
// negative for predictions worse than the mean.
func R2(truth, preds []float64) (float64, error) {
	if err := checkLengths(truth, preds); err != nil {
		return 0, err
	}

	return stat.RSquaredFrom(preds, truth, nil), nil
}

// Report holds the scores of a trained network on its training and test sets.
type Report struct {
	// RMSEP is the root mean squared error of prediction, on the test set
	RMSEP float64
	// RMSEC is the root mean squared error of calibration, on the training set
	RMSEC float64
	// Ratio is RMSEC / RMSEP
	Ratio float64
	R2    float64

	// ScaledRMSEP is RMSEP in the original units of the labels; NaN without a scaler
	ScaledRMSEP float64

	// Predictions on the test set, as given by the model
	Predictions []float64
}

// Regression scores 'model' on the training and test sets. If 'scaler' is not nil, the labels
// and predictions are also mapped back to their original units to give ScaledRMSEP.
func Regression(model Predictor, scaler InverseTransformer, xTrain, xTest ipa.Tensor, yTrain, yTest []float64) (*Report, error) {
	preds, err := model.Predict(xTest)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to predict test set")
	}

	r := &Report{Predictions: preds, ScaledRMSEP: math.NaN()}

	if r.RMSEP, err = RMSE(yTest, preds); err != nil {
		return nil, errors.Wrapf(err, "Test set")
	}
	if r.R2, err = R2(yTest, preds); err != nil {
		return nil, errors.Wrapf(err, "Test set")
	}

	trainPreds, err := model.Predict(xTrain)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to predict training set")
	}
	if r.RMSEC, err = RMSE(yTrain, trainPreds); err != nil {
		return nil, errors.Wrapf(err, "Training set")
	}

	if r.RMSEP != 0 {
		r.Ratio = r.RMSEC / r.RMSEP
	} else {
		r.Ratio = math.Inf(1)
	}

	if scaler != nil {
		if r.ScaledRMSEP, err = RMSE(scaler.InverseTransform(yTest), scaler.InverseTransform(preds)); err != nil {
			return nil, errors.Wrapf(err, "Scaled test set")
		}
	}

	return r, nil
}

// WriteTo writes the report in the usual three-line form.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	s := fmt.Sprintf("RMSEP: %.3f - R2: %.3f - Ratio: %.3f\nRMSEC: %.3f\n", r.RMSEP, r.R2, r.Ratio, r.RMSEC)
	if !math.IsNaN(r.ScaledRMSEP) {
		s += fmt.Sprintf("Scaled RMSEP %.3f\n", r.ScaledRMSEP)
	}

	n, err := io.WriteString(w, s)
	return int64(n), err
}

// CNNPrediction scores 'model' as Regression does, writes the report to 'w', and returns the
// RMSEP, R² and test set predictions.
func CNNPrediction(model Predictor, scaler InverseTransformer, xTrain, xTest ipa.Tensor, yTrain, yTest []float64, w io.Writer) (rmsep, r2 float64, preds []float64, err error) {
	r, err := Regression(model, scaler, xTrain, xTest, yTrain, yTest)
	if err != nil {
		return 0, 0, nil, err
	}

	if _, err = r.WriteTo(w); err != nil {
		return 0, 0, nil, errors.Wrapf(err, "Failed to write report")
	}

	return r.RMSEP, r.R2, r.Predictions, nil
}
