package mapdata

import (
	"context"

	"github.com/askelund/geopick/internal/domain/entity"
	"github.com/askelund/geopick/internal/domain/valueobject"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/mapdata_mocks.go -package=mocks

// Provider loads the vector world map for a resolution. Implementations
// may cache; callers treat the returned map as read only.
type Provider interface {
	Load(ctx context.Context, res valueobject.Resolution) (*entity.WorldMap, error)
}
