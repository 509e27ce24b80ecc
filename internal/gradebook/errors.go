package gradebook

import "errors"

var (
	// ErrParse is returned for malformed numeric input.
	ErrParse = errors.New("parse error")

	// ErrInvalidInput is returned for shape mismatches: unequal-length
	// sequences, an out-of-range drop count, an empty post-drop set, a zero
	// maximum or a cutoff list that does not match the scale.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCategory is returned when a referenced category is absent
	// from a student's row.
	ErrMissingCategory = errors.New("missing category")

	// ErrUnknownStudent is returned for lookups of an id not on the roster.
	ErrUnknownStudent = errors.New("unknown student")
)
