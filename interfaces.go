package ipa

import (
	"math/rand"
)

// Operator is a step of a network, mapping a batch Tensor to another batch Tensor.
type Operator interface {
	// TypeString returns the string corresponding to the type of the Operator
	TypeString() string

	// Evaluate returns the output of the Operator for a batch of inputs. If 'train' is false,
	// the Operator behaves as during inference (dropout disabled, nothing stored for
	// InputDeltas).
	//
	// Evaluate should not modify the input Tensor, and the output should be on the same
	// Device as the input.
	Evaluate(in Tensor, train bool) (Tensor, error)

	// InputDeltas is given the derivative of the loss with respect to each output of the most
	// recent training call to Evaluate. It adds the gradients of its Params and returns the
	// derivative of the loss with respect to each input.
	InputDeltas(deltas Tensor) (Tensor, error)

	// Params returns the trainable values of the Operator, if any. The returned slice can be
	// empty, and may grow after the first call to Evaluate for Operators that are resolved
	// lazily.
	Params() []*Param
}

// Optimizer updates the values of a Param from its gradients.
type Optimizer interface {
	TypeString() string

	// arguments: target Param, number of values, gradient of value at index,
	// add to value at index, learning rate
	//
	// number of values can be 0
	// adding to values is not thread-safe for repeated indexes
	Run(p *Param, size int, grad func(int) float64, add func(int, float64), learningRate float64) error
}

// CostFunction is the criterion that training minimizes.
//
// For all functions, can assume that the lengths of outputs and targets are the same.
type CostFunction interface {
	TypeString() string

	// Cost returns the cost of the outputs, given the targets
	Cost(outs, targets []float64) float64

	// Derivs returns the derivative of Cost with respect to each output
	Derivs(outs, targets []float64) []float64
}

// Penalty is a term added to the loss on account of the values of a Param.
type Penalty interface {
	TypeString() string

	// Cost returns the value added to the loss for the Param
	Cost(p *Param) float64

	// Penalize adds the derivative of Cost with respect to each value of the Param to its
	// gradients
	Penalize(p *Param)
}

// HyperParameter is a value that can change over the course of training, such as the learning
// rate.
type HyperParameter interface {
	TypeString() string

	// Value returns the value at the given iteration (epoch, for learning rate schedules)
	Value(iter int) float64
}

// Initializer sets the starting values of a Param, given the number of inputs and outputs that
// each value connects. All randomness comes from the given source.
type Initializer interface {
	Set(fanIn, fanOut int, ws []float64, rng *rand.Rand)
}
