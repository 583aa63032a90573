package web

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/askelund/geopick/internal/domain/entity"
	"github.com/askelund/geopick/internal/domain/valueobject"
)

type viewportPayload struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
}

type mapPayload struct {
	Viewport   viewportPayload            `json:"viewport"`
	Resolution string                     `json:"resolution"`
	Features   *geojson.FeatureCollection `json:"features"`
}

type clickMessage struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func newMapPayload(viewport valueobject.Extent, m *entity.WorldMap) mapPayload {
	return mapPayload{
		Viewport: viewportPayload{
			XMin: viewport.XMin,
			XMax: viewport.XMax,
			YMin: viewport.YMin,
			YMax: viewport.YMax,
		},
		Resolution: string(m.Resolution),
		Features:   featureCollection(m),
	}
}

// featureCollection rebuilds GeoJSON from the domain map so the page draws
// the same polygons the terminal renderer does.
func featureCollection(m *entity.WorldMap) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, lm := range m.Landmasses {
		poly := make(orb.Polygon, 0, 1+len(lm.Holes))
		poly = append(poly, orbRing(lm.Outer))
		for _, hole := range lm.Holes {
			poly = append(poly, orbRing(hole))
		}
		f := geojson.NewFeature(poly)
		f.Properties["name"] = lm.Name
		fc.Append(f)
	}
	return fc
}

// orbRing closes the ring explicitly, which the domain keeps implicit.
func orbRing(r entity.Ring) orb.Ring {
	out := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		out = append(out, orb.Point{p.Lon, p.Lat})
	}
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}
