package quadknn

import "errors"

// Errors returned by the index, search, and voting operations. They are
// always wrapped with context; test for them with errors.Is.
var (
	// ErrInvalidRegion means the build region is malformed or does not
	// contain every point.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrEmptyIndex means a query was issued against an index with no points.
	ErrEmptyIndex = errors.New("empty index")

	// ErrInvalidK means k <= 0 or k exceeds the number of indexed points.
	ErrInvalidK = errors.New("invalid k")

	// ErrInvalidQuery means a query coordinate is NaN.
	ErrInvalidQuery = errors.New("invalid query point")

	// ErrInvalidSchedule means the confidence schedule's k_max is not a
	// positive odd number covered by the neighbor sequence.
	ErrInvalidSchedule = errors.New("invalid schedule")
)
