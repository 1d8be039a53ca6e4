package ipa

// Schedule tracks the learning rate over the epochs of a training run. The rate at each epoch is
// given by a HyperParameter; Train advances the Schedule once per call.
type Schedule struct {
	hp    HyperParameter
	epoch int
}

// NewSchedule returns a Schedule starting at epoch 0.
func NewSchedule(hp HyperParameter) *Schedule {
	return &Schedule{hp: hp}
}

// Rate returns the learning rate for the current epoch.
func (s *Schedule) Rate() float64 {
	return s.hp.Value(s.epoch)
}

// Step advances the Schedule by one epoch.
func (s *Schedule) Step() {
	s.epoch++
}

// Epoch returns the number of times the Schedule has been stepped.
func (s *Schedule) Epoch() int {
	return s.epoch
}

// Seek sets the current epoch, for resuming a run part-way.
func (s *Schedule) Seek(epoch int) error {
	if epoch < 0 {
		return ErrNegativeEpoch
	}

	s.epoch = epoch
	return nil
}
