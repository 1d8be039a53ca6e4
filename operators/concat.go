package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"
)

// Concat joins Tensors along the given axis. All other dimensions, and the Device, must be the
// same for every Tensor; the sizes along 'axis' may differ, and add up in the output.
func Concat(axis int, ts ...ipa.Tensor) (ipa.Tensor, error) {
	if len(ts) == 0 {
		return ipa.Tensor{}, errors.Errorf("Nothing to concatenate")
	}

	rank := ts[0].Rank()
	if axis < 0 || axis >= rank {
		return ipa.Tensor{}, errors.Errorf("Axis %d out of range for rank %d", axis, rank)
	}

	if err := ipa.SameDevice(ts...); err != nil {
		return ipa.Tensor{}, err
	}

	dims := append([]int(nil), ts[0].Dims...)
	dims[axis] = 0
	for i, t := range ts {
		if t.Rank() != rank {
			return ipa.Tensor{}, errors.Wrapf(ipa.SizeMismatchError{What: "rank", Expected: rank, Got: t.Rank()}, "Tensor %d", i)
		}

		for d := range dims {
			if d != axis && t.Dims[d] != ts[0].Dims[d] {
				return ipa.Tensor{}, errors.Wrapf(ipa.SizeMismatchError{What: "concatenated dimension", Expected: ts[0].Dims[d], Got: t.Dims[d]},
					"Tensor %d, dimension %d", i, d)
			}
		}

		dims[axis] += t.Dims[axis]
	}

	out := ipa.NewTensor(dims...)
	out.Dev = ts[0].Dev

	layout := out.Layout()
	outer, inner := layout.Outer(axis), layout.Inner(axis)
	outRow := dims[axis] * inner

	offset := 0
	for _, t := range ts {
		n := t.Dims[axis] * inner
		for o := 0; o < outer; o++ {
			copy(out.Values[o*outRow+offset:o*outRow+offset+n], t.Values[o*n:(o+1)*n])
		}
		offset += n
	}

	return out, nil
}

// Split is the inverse of Concat, dividing 't' along 'axis' into Tensors with the given sizes.
// Values are copied.
func Split(t ipa.Tensor, axis int, sizes []int) ([]ipa.Tensor, error) {
	if axis < 0 || axis >= t.Rank() {
		return nil, errors.Errorf("Axis %d out of range for rank %d", axis, t.Rank())
	}

	var total int
	for _, s := range sizes {
		total += s
	}
	if total != t.Dims[axis] {
		return nil, ipa.SizeMismatchError{What: "split sizes", Expected: t.Dims[axis], Got: total}
	}

	layout := t.Layout()
	outer, inner := layout.Outer(axis), layout.Inner(axis)
	row := t.Dims[axis] * inner

	ts := make([]ipa.Tensor, len(sizes))
	offset := 0
	for i, s := range sizes {
		dims := append([]int(nil), t.Dims...)
		dims[axis] = s

		part := ipa.NewTensor(dims...)
		part.Dev = t.Dev

		n := s * inner
		for o := 0; o < outer; o++ {
			copy(part.Values[o*n:(o+1)*n], t.Values[o*row+offset:o*row+offset+n])
		}

		ts[i] = part
		offset += n
	}

	return ts, nil
}
