// Package tensorstore is the data boundary of the extrapolation
// pipeline: a minimal dense tensor type, the DataSource abstraction
// that materializes the three input tensors, and the
// precision-preserving writer for the restart vector.
//
// The pipeline core never touches storage directly. It consumes a
// DataSource, so tests can inject synthetic tensors through
// MemorySource while production callers read restart files through
// FileSource.
package tensorstore
