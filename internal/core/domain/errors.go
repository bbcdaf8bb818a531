package domain

import "errors"

// Domain errors represent comparison pipeline failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidImage indicates a degenerate page raster (zero area or no
	// pixel data). Fatal to that page only - the page is excluded from the
	// matching pool and reported as unmatched.
	ErrInvalidImage = errors.New("invalid image")

	// ErrIncompatibleImages indicates two rasters cannot be normalised onto
	// a common canvas for diffing. Fatal to that pair only; other pairs
	// continue.
	ErrIncompatibleImages = errors.New("incompatible images")

	// ErrAssignmentFailure indicates the assignment solver could not produce
	// a valid page correspondence. Fatal to the whole comparison run, since
	// a partial match set is meaningless.
	ErrAssignmentFailure = errors.New("assignment failure")

	// ErrCacheIO indicates the backing cache store failed. Always treated as
	// a cache miss and never fatal; the value is recomputed.
	ErrCacheIO = errors.New("cache I/O failure")

	// ErrWorkerTimeout indicates a unit of work exceeded its time budget.
	// The unit is marked as failed; sibling units are unaffected.
	ErrWorkerTimeout = errors.New("worker timeout")

	// ErrUnsupportedDocument indicates no renderer recognises the input path.
	ErrUnsupportedDocument = errors.New("unsupported document type")
)
