package location

import (
	"errors"
	"fmt"

	"github.com/piresc/kirimjek/internal/pkg/geo"
)

var (
	// ErrInvalidCoordinate rejects an update or query with an out-of-range coordinate
	ErrInvalidCoordinate = geo.ErrInvalidCoordinate
	// ErrDriverNotFound rejects an update for an unregistered driver id. It is
	// reported in the same class as a malformed coordinate.
	ErrDriverNotFound = fmt.Errorf("unknown driver: %w", ErrInvalidCoordinate)
	// ErrPositionNotFound is returned when no fix is stored for a driver
	ErrPositionNotFound = errors.New("driver position not found")
)
