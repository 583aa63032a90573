package valueobject

import (
	"fmt"

	"github.com/askelund/geopick/internal/domain"
)

// Resolution selects the level of detail of the world map dataset.
type Resolution string

const (
	ResolutionLow    Resolution = "low"
	ResolutionMedium Resolution = "medium"
)

// DefaultResolution is used when the caller does not request one.
const DefaultResolution = ResolutionLow

// ParseResolution validates a resolution name. Only the exact names
// "low" and "medium" are accepted.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case ResolutionLow, ResolutionMedium:
		return Resolution(s), nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidResolution, s)
	}
}

func (r Resolution) IsValid() bool {
	return r == ResolutionLow || r == ResolutionMedium
}

func (r Resolution) String() string {
	return string(r)
}
