package tensorstore

import "context"

// DataSource materializes the three input tensors of one extrapolation
// run. Implementations must return tensors with the documented shapes:
//
//   - orbital coefficients: nbas × nocc × nmat
//   - packed overlaps:      nbas(nbas+1)/2 × nmat
//   - geometries:           4 × nqm × nmat (row 0 charge, rows 1-3 position)
//
// Shape consistency across the three tensors is enforced by the
// pipeline before any computation, not by the source.
type DataSource interface {
	// OrbitalCoefficients returns the raw molecular-orbital
	// coefficient tensor.
	OrbitalCoefficients(ctx context.Context) (*Tensor, error)

	// Overlaps returns the packed overlap tensor, one column per
	// snapshot.
	Overlaps(ctx context.Context) (*Tensor, error)

	// Geometries returns the atom charge/position tensor.
	Geometries(ctx context.Context) (*Tensor, error)
}

// MemorySource is an in-memory DataSource for deterministic tests and
// for callers that already hold the tensors.
type MemorySource struct {
	coefficients *Tensor
	overlaps     *Tensor
	geometries   *Tensor
}

// NewMemorySource creates a MemorySource over the given tensors.
func NewMemorySource(coefficients, overlaps, geometries *Tensor) *MemorySource {
	return &MemorySource{
		coefficients: coefficients,
		overlaps:     overlaps,
		geometries:   geometries,
	}
}

// OrbitalCoefficients returns the coefficient tensor.
func (s *MemorySource) OrbitalCoefficients(_ context.Context) (*Tensor, error) {
	return s.coefficients, nil
}

// Overlaps returns the packed overlap tensor.
func (s *MemorySource) Overlaps(_ context.Context) (*Tensor, error) {
	return s.overlaps, nil
}

// Geometries returns the geometry tensor.
func (s *MemorySource) Geometries(_ context.Context) (*Tensor, error) {
	return s.geometries, nil
}
