package lbm

import "errors"

// Sentinel errors for the solver. Callers match them with errors.Is; the
// wrapped messages carry cell positions and offending values.
var (
	// ErrInvalidDimensions is returned when a lattice is constructed with
	// width or height below 1.
	ErrInvalidDimensions = errors.New("lbm: invalid lattice dimensions")

	// ErrInvalidRelaxation is returned when tau puts omega = 1/tau outside
	// the stable range (0, 2]. This is a configuration error caught at
	// construction, never mid-run.
	ErrInvalidRelaxation = errors.New("lbm: relaxation rate outside stable range")

	// ErrOutOfBounds is returned by cell queries with coordinates outside
	// the grid. Coordinates are never clamped or wrapped.
	ErrOutOfBounds = errors.New("lbm: cell coordinates out of bounds")

	// ErrUnstable is returned by Step when a NaN or negative distribution
	// value appears. The value is not corrected; the step still completes
	// so the caller can inspect the state.
	ErrUnstable = errors.New("lbm: numerical instability")

	// ErrTopologyFrozen is returned when obstacles are added after the
	// first step. Cell kinds are immutable once the simulation runs.
	ErrTopologyFrozen = errors.New("lbm: topology is immutable after the first step")
)
