package model

import "errors"

// Sentinel errors shared across the pipeline. Callers wrap these with
// fmt.Errorf("...: %w", Err...) so errors.Is works through the stack.
var (
	// ErrConfiguration marks a bad run configuration (unknown archetype,
	// empty topology, invalid hour range). Always raised before any solve.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataInconsistency marks input rows that reference unknown elements
	// (e.g. a load on a bus id the topology does not contain). These are
	// skipped, not fatal, but surfaced as exclusions.
	ErrDataInconsistency = errors.New("data inconsistency")
)
