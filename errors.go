package gext

import "fmt"

// ErrInputShapeMismatch indicates that one of the three input tensors
// has the wrong rank, or that the tensors disagree on a shared
// dimension. The pipeline aborts before any computation; no partial
// processing happens.
//
// Numerical failures deeper in the pipeline carry their own typed
// errors: tril.ErrInvalidPackedLength,
// basis.ErrNonPositiveDefiniteOverlap,
// manifold.ErrSingularSubspaceOverlap,
// descriptor.ErrDegenerateAtomPositions,
// fit.ErrDescriptorLengthMismatch, fit.ErrInsufficientHistory and
// fit.ErrExtrapolationSingular. All of them are fatal; none is retried.
type ErrInputShapeMismatch struct {
	Tensor    string
	Dimension string
	Expected  int
	Actual    int
}

func (e *ErrInputShapeMismatch) Error() string {
	return fmt.Sprintf("input shape mismatch: tensor %s, dimension %s: expected %d, got %d", e.Tensor, e.Dimension, e.Expected, e.Actual)
}
