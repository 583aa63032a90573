package valueobject

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Extent is an axis-aligned geographic bounding box in decimal degrees.
type Extent struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

func NewExtent(xmin, xmax, ymin, ymax float64) Extent {
	return Extent{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax}
}

// WorldExtent covers the whole WGS 84 coordinate space.
func WorldExtent() Extent {
	return Extent{XMin: -180, XMax: 180, YMin: -90, YMax: 90}
}

// ExtentFromPoints builds the extent spanned by two corner points. The
// points may be given in any order; each axis is ordered independently.
func ExtentFromPoints(a, b Point) Extent {
	return Extent{
		XMin: math.Min(a.Lon, b.Lon),
		XMax: math.Max(a.Lon, b.Lon),
		YMin: math.Min(a.Lat, b.Lat),
		YMax: math.Max(a.Lat, b.Lat),
	}
}

// IsValid reports whether all four bounds are finite and ordered. Extents
// spanning a single point or line are valid.
func (e Extent) IsValid() bool {
	for _, v := range [4]float64{e.XMin, e.XMax, e.YMin, e.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return e.XMin <= e.XMax && e.YMin <= e.YMax
}

// HasArea reports whether the extent is strictly wider and taller than a
// point, which is what a viewport needs to be renderable.
func (e Extent) HasArea() bool {
	return e.XMin < e.XMax && e.YMin < e.YMax
}

func (e Extent) Width() float64 {
	return e.XMax - e.XMin
}

func (e Extent) Height() float64 {
	return e.YMax - e.YMin
}

func (e Extent) Center() Point {
	return Point{
		Lon: (e.XMin + e.XMax) / 2,
		Lat: (e.YMin + e.YMax) / 2,
	}
}

func (e Extent) Contains(p Point) bool {
	return p.Lon >= e.XMin && p.Lon <= e.XMax &&
		p.Lat >= e.YMin && p.Lat <= e.YMax
}

func (e Extent) Intersects(o Extent) bool {
	return e.XMin <= o.XMax && e.XMax >= o.XMin &&
		e.YMin <= o.YMax && e.YMax >= o.YMin
}

// Round returns a copy with every bound rounded to p decimal digits.
// Precision values that do not round return the extent unchanged.
func (e Extent) Round(p Precision) Extent {
	return Extent{
		XMin: p.Round(e.XMin),
		XMax: p.Round(e.XMax),
		YMin: p.Round(e.YMin),
		YMax: p.Round(e.YMax),
	}
}

// Vector renders the extent as c(xmin, xmax, ymin, ymax) with each bound
// rounded to p decimal digits. Trailing zeros are not printed.
func (e Extent) Vector(p Precision) string {
	r := e.Round(p)
	parts := []string{
		formatCoord(r.XMin),
		formatCoord(r.XMax),
		formatCoord(r.YMin),
		formatCoord(r.YMax),
	}
	return fmt.Sprintf("c(%s)", strings.Join(parts, ", "))
}

func (e Extent) String() string {
	return e.Vector(PrecisionFull)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
