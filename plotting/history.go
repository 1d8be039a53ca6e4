package plotting

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"

	"fmt"
)

// DefaultHistoryTitle is used by TrainingHistory when no title is given.
const DefaultHistoryTitle string = "Training Loss over Epochs"

// TrainingHistory draws the training and test loss of each epoch.
func TrainingHistory(train, test []float64, title, path string) error {
	if len(train) == 0 {
		return errors.Errorf("No training losses to plot")
	}
	if title == "" {
		title = DefaultHistoryTitle
	}

	p := newPlot(title, "Epoch", "Loss")
	p.Add(plotter.NewGrid())

	if err := plotutil.AddLines(p, "Training Loss", series(train), "Test Loss", series(test)); err != nil {
		return errors.Wrapf(err, "Failed to add loss lines")
	}

	return save(p, width, height, path)
}

// History draws the training and validation loss of each epoch. Unless 'forPaper' is set, the
// title reports the final RMSEP and R².
func History(train, val []float64, rmsep, r2 float64, forPaper bool, path string) error {
	if len(train) == 0 {
		return errors.Errorf("No training losses to plot")
	}

	var title string
	if !forPaper {
		title = fmt.Sprintf("Train/val loss - RMSEP: %.3f; R2: %.3f", rmsep, r2)
	}

	p := newPlot(title, "Epochs", "Loss")
	p.Legend.Top = true

	if err := plotutil.AddLines(p, "train", series(train), "validation", series(val)); err != nil {
		return errors.Wrapf(err, "Failed to add loss lines")
	}

	return save(p, width, height, path)
}
