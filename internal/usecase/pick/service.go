package pick

import (
	"context"
	"fmt"
	"io"

	"github.com/askelund/geopick/internal/adapter/capture"
	"github.com/askelund/geopick/internal/adapter/mapdata"
	"github.com/askelund/geopick/internal/domain"
	"github.com/askelund/geopick/internal/domain/valueobject"
)

const instruction = "Click on two opposite corners of the desired extent."

type Service struct {
	provider mapdata.Provider
	capturer capture.Capturer
	out      io.Writer
}

func NewService(provider mapdata.Provider, capturer capture.Capturer, out io.Writer) *Service {
	return &Service{
		provider: provider,
		capturer: capturer,
		out:      out,
	}
}

type Input struct {
	// Viewport restricts the initial view. Nil shows the whole world.
	Viewport *valueobject.Extent
	// Resolution names the map detail level. Empty selects low.
	Resolution string
	// Round is the display precision of the reported extent. The
	// returned extent always keeps full precision.
	Round valueobject.Precision
}

func DefaultInput() Input {
	return Input{Round: valueobject.DefaultPrecision}
}

// Pick shows the world map, blocks until the user has chosen two corners
// and returns the extent they span. The extent is also echoed to the
// output writer, rounded to the requested precision.
func (s *Service) Pick(ctx context.Context, input Input) (valueobject.Extent, error) {
	var zero valueobject.Extent

	res := valueobject.DefaultResolution
	if input.Resolution != "" {
		parsed, err := valueobject.ParseResolution(input.Resolution)
		if err != nil {
			return zero, err
		}
		res = parsed
	}

	viewport := valueobject.WorldExtent()
	if input.Viewport != nil {
		viewport = *input.Viewport
	}
	if !viewport.IsValid() || !viewport.HasArea() {
		return zero, fmt.Errorf("%w: %s", domain.ErrInvalidExtent, viewport)
	}

	m, err := s.provider.Load(ctx, res)
	if err != nil {
		return zero, fmt.Errorf("loading world map: %w", err)
	}

	fmt.Fprintln(s.out, instruction)

	first, second, err := s.capturer.Capture(ctx, capture.Request{Viewport: viewport, Map: m})
	if err != nil {
		return zero, err
	}

	extent := valueobject.ExtentFromPoints(first, second)
	fmt.Fprintf(s.out, "Selected extent: %s\n", extent.Vector(input.Round))

	return extent, nil
}
