package naturalearth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/askelund/geopick/internal/domain"
	"github.com/askelund/geopick/internal/domain/entity"
	"github.com/askelund/geopick/internal/domain/valueobject"
	"github.com/askelund/geopick/internal/infrastructure/config"
)

// datasetFiles maps resolutions to the Natural Earth admin-0 country
// files. Low detail is the 1:110m scale, medium the 1:50m scale.
var datasetFiles = map[valueobject.Resolution]string{
	valueobject.ResolutionLow:    "ne_110m_admin_0_countries.geojson",
	valueobject.ResolutionMedium: "ne_50m_admin_0_countries.geojson",
}

// Provider loads Natural Earth GeoJSON datasets. Files are looked up in
// the configured data directory first, then the on-disk cache, and only
// then fetched over HTTP. Decoded maps are memoized per resolution.
type Provider struct {
	cfg    config.DatasetConfig
	client *http.Client
	logger *zap.Logger

	mu     sync.Mutex
	loaded map[valueobject.Resolution]*entity.WorldMap
}

func NewProvider(cfg config.DatasetConfig, logger *zap.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.FetchTimeout},
		logger: logger,
		loaded: make(map[valueobject.Resolution]*entity.WorldMap),
	}
}

func (p *Provider) Load(ctx context.Context, res valueobject.Resolution) (*entity.WorldMap, error) {
	file, ok := datasetFiles[res]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidResolution, res)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.loaded[res]; ok {
		return m, nil
	}

	data, err := p.readOrFetch(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDatasetUnavailable, file, err)
	}

	m, err := decode(res, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDatasetUnavailable, file, err)
	}

	p.logger.Debug("map dataset loaded",
		zap.String("resolution", res.String()),
		zap.Int("landmasses", len(m.Landmasses)),
	)

	p.loaded[res] = m
	return m, nil
}

func (p *Provider) readOrFetch(ctx context.Context, file string) ([]byte, error) {
	if p.cfg.DataDir != "" {
		path := filepath.Join(p.cfg.DataDir, file)
		data, err := os.ReadFile(path)
		if err == nil {
			p.logger.Debug("using dataset from data dir", zap.String("path", path))
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cacheDir, err := p.cacheDir()
	if err != nil {
		return nil, err
	}
	cachePath := filepath.Join(cacheDir, file)

	if data, err := os.ReadFile(cachePath); err == nil {
		p.logger.Debug("using cached dataset", zap.String("path", cachePath))
		return data, nil
	}

	data, err := p.fetch(ctx, file)
	if err != nil {
		return nil, err
	}

	if err := writeCache(cachePath, data); err != nil {
		// The cache is best effort, the fetched bytes are still good.
		p.logger.Warn("caching dataset failed", zap.String("path", cachePath), zap.Error(err))
	}

	return data, nil
}

func (p *Provider) cacheDir() (string, error) {
	if p.cfg.CacheDir != "" {
		return p.cfg.CacheDir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving cache dir: %w", err)
	}
	return filepath.Join(base, "geopick"), nil
}

func (p *Provider) fetch(ctx context.Context, file string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(p.cfg.BaseURL, "/"), file)

	p.logger.Info("fetching map dataset", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}

// writeCache writes atomically so a killed process never leaves a
// truncated dataset behind.
func writeCache(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func decode(res valueobject.Resolution, data []byte) (*entity.WorldMap, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding geojson: %w", err)
	}

	var landmasses []entity.Landmass
	for _, f := range fc.Features {
		name := featureName(f.Properties)
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			if lm, ok := polygonLandmass(name, g); ok {
				landmasses = append(landmasses, lm)
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				if lm, ok := polygonLandmass(name, poly); ok {
					landmasses = append(landmasses, lm)
				}
			}
		}
	}

	if len(landmasses) == 0 {
		return nil, errors.New("no polygon features in dataset")
	}
	return entity.NewWorldMap(res, landmasses), nil
}

func polygonLandmass(name string, poly orb.Polygon) (entity.Landmass, bool) {
	if len(poly) == 0 || len(poly[0]) == 0 {
		return entity.Landmass{}, false
	}
	var holes []entity.Ring
	for _, hole := range poly[1:] {
		holes = append(holes, ringPoints(hole))
	}
	return entity.NewLandmass(name, ringPoints(poly[0]), holes), true
}

func ringPoints(r orb.Ring) entity.Ring {
	ring := make(entity.Ring, 0, len(r))
	for _, pt := range r {
		ring = append(ring, valueobject.NewPoint(pt.Lon(), pt.Lat()))
	}
	return ring
}

func featureName(props geojson.Properties) string {
	for _, key := range []string{"NAME", "ADMIN", "name", "admin"} {
		if v := props.MustString(key, ""); v != "" {
			return v
		}
	}
	return ""
}
