package tensorstore

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense row-major tensor of float64 values. The last axis
// of the input tensors always enumerates snapshots.
type Tensor struct {
	shape []int
	data  []float64
}

// NewTensor allocates a zero tensor with the given shape. It panics on
// non-positive dimensions; use NewTensorWithData for checked creation.
func NewTensor(shape ...int) *Tensor {
	for _, d := range shape {
		if d <= 0 {
			panic(fmt.Sprintf("tensorstore: non-positive dimension %d in shape %v", d, shape))
		}
	}
	t, err := NewTensorWithData(make([]float64, size(shape)), shape...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTensorWithData wraps data (not copied) as a tensor with the given
// shape. The data length must match the shape's volume.
func NewTensorWithData(data []float64, shape ...int) (*Tensor, error) {
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("non-positive tensor dimension %d in shape %v", d, shape)
		}
	}
	if len(data) != size(shape) {
		return nil, fmt.Errorf("data length %d does not match shape %v (want %d)", len(data), shape, size(shape))
	}
	return &Tensor{shape: append([]int(nil), shape...), data: data}, nil
}

func size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int { return len(t.shape) }

// Dim returns the length of axis i.
func (t *Tensor) Dim(i int) int { return t.shape[i] }

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() []int { return append([]int(nil), t.shape...) }

// At returns the element at the given multi-index.
func (t *Tensor) At(idx ...int) float64 { return t.data[t.offset(idx)] }

// Set stores v at the given multi-index.
func (t *Tensor) Set(v float64, idx ...int) { t.data[t.offset(idx)] = v }

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensorstore: %d indices for rank-%d tensor", len(idx), len(t.shape)))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= t.shape[i] {
			panic(fmt.Sprintf("tensorstore: index %d out of range [0,%d) on axis %d", x, t.shape[i], i))
		}
		off = off*t.shape[i] + x
	}
	return off
}

// SnapshotMatrix returns slice [:, :, k] of a rank-3 tensor as a dense
// matrix of shape Dim(0)×Dim(1).
func (t *Tensor) SnapshotMatrix(k int) *mat.Dense {
	if t.Rank() != 3 {
		panic(fmt.Sprintf("tensorstore: SnapshotMatrix on rank-%d tensor", t.Rank()))
	}
	rows, cols := t.shape[0], t.shape[1]
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, t.At(i, j, k))
		}
	}
	return m
}

// SnapshotColumn returns column [:, k] of a rank-2 tensor.
func (t *Tensor) SnapshotColumn(k int) []float64 {
	if t.Rank() != 2 {
		panic(fmt.Sprintf("tensorstore: SnapshotColumn on rank-%d tensor", t.Rank()))
	}
	col := make([]float64, t.shape[0])
	for i := range col {
		col[i] = t.At(i, k)
	}
	return col
}
