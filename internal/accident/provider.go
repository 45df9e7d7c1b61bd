package accident

import (
	"context"
	"errors"

	"github.com/roadwatch/roadwatch/internal/model"
)

// ErrNotFound is returned when the accident does not exist
var ErrNotFound = errors.New("accident not found")

// Provider is the read-only accident data source. A nil accident with a nil
// error means the record is not available yet.
type Provider interface {
	Get(ctx context.Context, id string) (*model.Accident, error)
}

// Invalidator is implemented by providers that cache records
type Invalidator interface {
	Invalidate(id string)
}
