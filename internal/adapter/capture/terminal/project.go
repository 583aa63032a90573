package terminal

import (
	"math"

	"github.com/askelund/geopick/internal/domain/valueobject"
)

const (
	zoomStep    = 1.2
	panFraction = 0.1

	// minSpan stops zooming in once the viewport is about a hundred
	// meters across, well past any useful extent pick.
	minSpan = 0.001
)

// projection maps geographic coordinates onto the micro grid of a canvas
// showing a viewport, equirectangular with the y axis flipped.
type projection struct {
	viewport valueobject.Extent
	wMic     int
	hMic     int
}

func newProjection(viewport valueobject.Extent, cellW, cellH int) projection {
	return projection{
		viewport: viewport,
		wMic:     cellW * microPerCellX,
		hMic:     cellH * microPerCellY,
	}
}

func (p projection) micro(pt valueobject.Point) (int, int) {
	nx := (pt.Lon - p.viewport.XMin) / p.viewport.Width()
	ny := (pt.Lat - p.viewport.YMin) / p.viewport.Height()
	x := int(math.Round(nx * float64(p.wMic-1)))
	y := int(math.Round((1 - ny) * float64(p.hMic-1)))
	return x, y
}

// pointAt is the inverse mapping for mouse input. Cell coordinates are
// resolved at the center of the cell.
func (p projection) pointAt(cellX, cellY int) valueobject.Point {
	mx := float64(cellX*microPerCellX) + float64(microPerCellX-1)/2
	my := float64(cellY*microPerCellY) + float64(microPerCellY-1)/2
	nx := mx / float64(p.wMic-1)
	ny := 1 - my/float64(p.hMic-1)
	return valueobject.Point{
		Lon: p.viewport.XMin + nx*p.viewport.Width(),
		Lat: p.viewport.YMin + ny*p.viewport.Height(),
	}
}

// zoomViewport scales the viewport around its center. Factors above one
// zoom in. The result never grows beyond bounds or shrinks below minSpan.
func zoomViewport(vp valueobject.Extent, factor float64, bounds valueobject.Extent) valueobject.Extent {
	w := vp.Width() / factor
	h := vp.Height() / factor
	if factor > 1 && (w < minSpan || h < minSpan) {
		return vp
	}
	c := vp.Center()
	out := valueobject.NewExtent(c.Lon-w/2, c.Lon+w/2, c.Lat-h/2, c.Lat+h/2)
	return clampViewport(out, bounds)
}

// panViewport shifts the viewport by fractions of its own span.
func panViewport(vp valueobject.Extent, dxFrac, dyFrac float64, bounds valueobject.Extent) valueobject.Extent {
	dx := vp.Width() * dxFrac
	dy := vp.Height() * dyFrac
	out := valueobject.NewExtent(vp.XMin+dx, vp.XMax+dx, vp.YMin+dy, vp.YMax+dy)
	return clampViewport(out, bounds)
}

// clampViewport keeps the viewport inside bounds, shrinking it first if
// it is larger than the bounds themselves.
func clampViewport(vp, bounds valueobject.Extent) valueobject.Extent {
	w := math.Min(vp.Width(), bounds.Width())
	h := math.Min(vp.Height(), bounds.Height())
	c := vp.Center()
	out := valueobject.NewExtent(c.Lon-w/2, c.Lon+w/2, c.Lat-h/2, c.Lat+h/2)

	if out.XMin < bounds.XMin {
		out = shiftX(out, bounds.XMin-out.XMin)
	} else if out.XMax > bounds.XMax {
		out = shiftX(out, bounds.XMax-out.XMax)
	}
	if out.YMin < bounds.YMin {
		out = shiftY(out, bounds.YMin-out.YMin)
	} else if out.YMax > bounds.YMax {
		out = shiftY(out, bounds.YMax-out.YMax)
	}
	return out
}

func shiftX(e valueobject.Extent, d float64) valueobject.Extent {
	e.XMin += d
	e.XMax += d
	return e
}

func shiftY(e valueobject.Extent, d float64) valueobject.Extent {
	e.YMin += d
	e.YMax += d
	return e
}
