package spatialindex

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/askelund/geopick/internal/domain/entity"
	"github.com/askelund/geopick/internal/domain/valueobject"
)

// padding keeps degenerate rectangles insertable. rtreego requires
// strictly positive side lengths, and a meridian-hugging islet can have a
// zero-width bounding box.
const padding = 1e-9

// Index answers which landmasses intersect a viewport without scanning
// the whole map on every redraw.
type Index struct {
	tree *rtreego.Rtree
}

type item struct {
	rect rtreego.Rect
	pos  int
}

func (i *item) Bounds() rtreego.Rect {
	return i.rect
}

func New(landmasses []entity.Landmass) (*Index, error) {
	tree := rtreego.NewTree(2, 25, 50)
	for pos, lm := range landmasses {
		rect, err := extentRect(lm.Bounds)
		if err != nil {
			return nil, fmt.Errorf("indexing landmass %q: %w", lm.Name, err)
		}
		tree.Insert(&item{rect: rect, pos: pos})
	}
	return &Index{tree: tree}, nil
}

// Intersecting returns the positions of all landmasses whose bounds
// intersect the viewport, ascending, so callers draw in a stable order.
func (ix *Index) Intersecting(viewport valueobject.Extent) ([]int, error) {
	rect, err := extentRect(viewport)
	if err != nil {
		return nil, fmt.Errorf("querying viewport: %w", err)
	}
	var positions []int
	for _, hit := range ix.tree.SearchIntersect(rect) {
		positions = append(positions, hit.(*item).pos)
	}
	sort.Ints(positions)
	return positions, nil
}

func extentRect(e valueobject.Extent) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{e.XMin, e.YMin},
		[]float64{e.Width() + padding, e.Height() + padding},
	)
}
