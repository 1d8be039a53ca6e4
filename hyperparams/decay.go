package hyperparams

import (
	"math"
)

// **********************************************
// Step decay
// **********************************************

type stepDecay struct {
	base     float64
	stepSize int
	γ        float64
}

// StepDecay returns a HyperParameter that starts at 'base' and is multiplied by γ every
// 'stepSize' iterations.
func StepDecay(base float64, stepSize int, γ float64) *stepDecay {
	if stepSize < 1 {
		stepSize = 1
	}

	return &stepDecay{base, stepSize, γ}
}

func (s *stepDecay) TypeString() string {
	return "step-decay"
}

func (s *stepDecay) Value(iter int) float64 {
	return s.base * math.Pow(s.γ, float64(iter/s.stepSize))
}

// **********************************************
// Exponential decay
// **********************************************

type exponential struct {
	base float64
	γ    float64
}

// Exponential returns a HyperParameter equal to base·γ^iter.
func Exponential(base, γ float64) *exponential {
	return &exponential{base, γ}
}

func (e *exponential) TypeString() string {
	return "exponential"
}

func (e *exponential) Value(iter int) float64 {
	return e.base * math.Pow(e.γ, float64(iter))
}

// **********************************************
// Linear decay
// **********************************************

type linear struct {
	base, final float64
	iters       int
}

// Linear returns a HyperParameter that goes linearly from 'base' to 'final' over 'iters'
// iterations, and stays at 'final' afterwards.
func Linear(base, final float64, iters int) *linear {
	return &linear{base, final, iters}
}

func (l *linear) TypeString() string {
	return "linear"
}

func (l *linear) Value(iter int) float64 {
	if iter >= l.iters || l.iters <= 0 {
		return l.final
	}

	frac := float64(iter) / float64(l.iters)
	return l.base + frac*(l.final-l.base)
}
