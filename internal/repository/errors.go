package repository

import (
	"errors"

	"github.com/roadwatch/roadwatch/internal/accident"
)

// Common repository errors
var (
	// ErrNotFound aliases accident.ErrNotFound so callers of either
	// provider can match a single sentinel.
	ErrNotFound = accident.ErrNotFound
	ErrInvalid  = errors.New("invalid input")
)
