package utils

// MultiDim maps points of a row-major n-dimensional array to offsets in its flat backing slice.
// For a (batch, channels, positions) Tensor, the positions of one channel are contiguous.
//
// Dims and Strides must not be changed after construction.
type MultiDim struct {
	Dims []int

	// Strides[i] is the distance in the flat slice between neighbours along dimension i; the
	// last stride is always 1.
	Strides []int
}

// NewMultiDim returns the layout of an array with the given dimensions, outermost first. 'dims'
// is copied.
func NewMultiDim(dims []int) *MultiDim {
	strides := make([]int, len(dims))
	acc := 1
	for i := len(dims) - 1; i >= 0; i-- {
		strides[i], acc = acc, acc*dims[i]
	}

	return &MultiDim{Dims: append([]int(nil), dims...), Strides: strides}
}

// Index is the flat offset of 'point', which must have one coordinate per dimension.
func (m *MultiDim) Index(point []int) int {
	off := 0
	for i, c := range point {
		off += c * m.Strides[i]
	}
	return off
}

// Point is the inverse of Index. 'index' is not bounds checked.
func (m *MultiDim) Point(index int) []int {
	point := make([]int, len(m.Strides))
	for i, s := range m.Strides {
		point[i], index = index/s, index%s
	}
	return point
}

// Size is the number of values in the array; zero for a layout with no dimensions.
func (m *MultiDim) Size() int {
	if len(m.Dims) == 0 {
		return 0
	}
	return m.Strides[0] * m.Dims[0]
}

func (m *MultiDim) Dim(d int) int { return m.Dims[d] }

// Increment moves 'point' to the next index in row-major order. On wrapping past the last point
// it resets 'point' to all zeros and returns false.
func (m *MultiDim) Increment(point []int) bool {
	for d := len(point) - 1; d >= 0; d-- {
		if point[d]+1 < m.Dims[d] {
			point[d]++
			return true
		}
		point[d] = 0
	}
	return false
}

// Outer and Inner view the array as (Outer(axis), Dims[axis], Inner(axis)): Outer is the product
// of the dimensions before 'axis' and Inner the product of those after it.
func (m *MultiDim) Outer(axis int) int {
	n := 1
	for _, d := range m.Dims[:axis] {
		n *= d
	}
	return n
}

func (m *MultiDim) Inner(axis int) int {
	return m.Strides[axis]
}
