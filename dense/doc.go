// Package dense provides the small dense vector and matrix types the
// evaluation engine operates on. Matrices are row-major float64 and are
// treated as immutable once handed to the engine.
package dense
