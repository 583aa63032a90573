package capture

import (
	"context"

	"github.com/askelund/geopick/internal/domain/entity"
	"github.com/askelund/geopick/internal/domain/valueobject"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/capture_mocks.go -package=mocks

// Request carries what a capturer needs to present the map and collect a
// selection from the user.
type Request struct {
	Viewport valueobject.Extent
	Map      *entity.WorldMap
}

// Capturer blocks until the user has picked two corner points or the
// attempt is abandoned. The points are returned in click order.
type Capturer interface {
	Capture(ctx context.Context, req Request) (valueobject.Point, valueobject.Point, error)
}
