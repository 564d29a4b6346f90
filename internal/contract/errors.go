package contract

import "errors"

var (
	// ErrInvalidRange is returned when a date window starts after it ends.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrBranchCount is returned when a pairwise comparison does not get exactly two branches.
	ErrBranchCount = errors.New("pairwise comparison needs exactly two branches")

	// ErrInvalidInput is returned when a request parameter cannot be used.
	ErrInvalidInput = errors.New("invalid input")
)
