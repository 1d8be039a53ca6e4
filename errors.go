package ipa

import (
	"fmt"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned or panicked.
var (
	ErrRegisterNilReturn = Error{"Function return is nil"}
	ErrRegisterExists    = Error{"Name has already been registered"}
	ErrNotRegistered     = Error{"Name has not been registered"}

	ErrUnresolved    = Error{"Layer width has not been resolved"}
	ErrNoBatches     = Error{"Data has no batches"}
	ErrNegativeEpoch = Error{"Epoch is negative"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// SizeMismatchError is returned when the dimensions of a Tensor (or the number of values in
// one) do not agree with what an operation requires.
type SizeMismatchError struct {
	// What describes the quantity being compared, e.g. "input channels"
	What     string
	Expected int
	Got      int
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("Size mismatch for %s: expected %d, got %d", err.What, err.Expected, err.Got)
}

// DeviceMismatchError is returned when Tensors placed on different Devices are combined.
type DeviceMismatchError struct {
	A, B Device
}

func (err DeviceMismatchError) Error() string {
	return fmt.Sprintf("Tensors are on different devices (%q and %q)", err.A, err.B)
}

// NilArg returns a NilArgError for the named argument.
func NilArg(what string) NilArgError {
	return NilArgError{what}
}
