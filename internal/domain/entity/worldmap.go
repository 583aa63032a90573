package entity

import (
	"math"

	"github.com/askelund/geopick/internal/domain/valueobject"
)

// Ring is a closed sequence of vertices. The first and last vertex do not
// need to repeat; consumers treat the ring as implicitly closed.
type Ring []valueobject.Point

// Landmass is a single polygon of the world map with optional interior
// holes, for example a country outline with its lakes.
type Landmass struct {
	Name   string
	Outer  Ring
	Holes  []Ring
	Bounds valueobject.Extent
}

func NewLandmass(name string, outer Ring, holes []Ring) Landmass {
	return Landmass{
		Name:   name,
		Outer:  outer,
		Holes:  holes,
		Bounds: ringBounds(outer),
	}
}

// WorldMap is the loaded vector map for one resolution.
type WorldMap struct {
	Resolution valueobject.Resolution
	Landmasses []Landmass
}

func NewWorldMap(res valueobject.Resolution, landmasses []Landmass) *WorldMap {
	return &WorldMap{
		Resolution: res,
		Landmasses: landmasses,
	}
}

// Bounds is the union of all landmass bounds. An empty map reports the
// world extent so callers always get a renderable area.
func (m *WorldMap) Bounds() valueobject.Extent {
	if len(m.Landmasses) == 0 {
		return valueobject.WorldExtent()
	}
	b := m.Landmasses[0].Bounds
	for _, lm := range m.Landmasses[1:] {
		b.XMin = math.Min(b.XMin, lm.Bounds.XMin)
		b.XMax = math.Max(b.XMax, lm.Bounds.XMax)
		b.YMin = math.Min(b.YMin, lm.Bounds.YMin)
		b.YMax = math.Max(b.YMax, lm.Bounds.YMax)
	}
	return b
}

func ringBounds(r Ring) valueobject.Extent {
	if len(r) == 0 {
		return valueobject.Extent{}
	}
	b := valueobject.Extent{
		XMin: r[0].Lon, XMax: r[0].Lon,
		YMin: r[0].Lat, YMax: r[0].Lat,
	}
	for _, p := range r[1:] {
		b.XMin = math.Min(b.XMin, p.Lon)
		b.XMax = math.Max(b.XMax, p.Lon)
		b.YMin = math.Min(b.YMin, p.Lat)
		b.YMax = math.Max(b.YMax, p.Lat)
	}
	return b
}
