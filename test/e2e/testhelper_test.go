package e2e_test

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askelund/geopick/internal/adapter/capture/web"
	"github.com/askelund/geopick/internal/adapter/mapdata/naturalearth"
	"github.com/askelund/geopick/internal/domain/valueobject"
	"github.com/askelund/geopick/internal/infrastructure/config"
	"github.com/askelund/geopick/internal/usecase/pick"
)

// worldFixture is a tiny Natural Earth shaped dataset: one country with a
// lake and one two-island country.
const worldFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"NAME": "Squareland"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [
          [[0,0],[20,0],[20,10],[0,10],[0,0]],
          [[8,4],[12,4],[12,6],[8,6],[8,4]]
        ]
      }
    },
    {
      "type": "Feature",
      "properties": {"NAME": "Twin Isles"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[-30,-20],[-25,-20],[-25,-15],[-30,-15],[-30,-20]]],
          [[[-22,-20],[-18,-20],[-18,-16],[-22,-16],[-22,-20]]]
        ]
      }
    }
  ]
}`

type pickResult struct {
	extent valueobject.Extent
	err    error
}

// syncBuffer collects the tool's stdout lines from the picking goroutine so
// the test can poll them safely.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type pickerApp struct {
	out     *syncBuffer
	service *pick.Service
}

// setupPicker wires the real provider and the real web capturer, exactly as
// main does, against a pre-seeded dataset dir so no network is involved.
func setupPicker(t *testing.T) *pickerApp {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	dataDir := t.TempDir()
	err := os.WriteFile(filepath.Join(dataDir, "ne_110m_admin_0_countries.geojson"), []byte(worldFixture), 0o644)
	require.NoError(t, err)

	logger := zap.NewNop()
	provider := naturalearth.NewProvider(config.DatasetConfig{
		DataDir:      dataDir,
		FetchTimeout: time.Second,
	}, logger)

	out := &syncBuffer{}
	capturer := web.NewCapturer(config.WebConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
		Environment:     "production",
		OpenBrowser:     false,
	}, out, logger)

	return &pickerApp{
		out:     out,
		service: pick.NewService(provider, capturer, out),
	}
}

func (app *pickerApp) startPick(ctx context.Context, input pick.Input) chan pickResult {
	results := make(chan pickResult, 1)
	go func() {
		extent, err := app.service.Pick(ctx, input)
		results <- pickResult{extent: extent, err: err}
	}()
	return results
}

var pageURLPattern = regexp.MustCompile(`http://\S+`)

// waitForPageURL polls the output until the capturer has printed where the
// picker page is being served.
func waitForPageURL(t *testing.T, out *syncBuffer) string {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if m := pageURLPattern.FindString(out.String()); m != "" {
			return m
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("picker page URL was never printed")
	return ""
}

func dialPicker(t *testing.T, pageURL string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(pageURL)
	require.NoError(t, err)
	u.Scheme = "ws"
	u.Path = "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn
}

func waitForResult(t *testing.T, results chan pickResult) pickResult {
	t.Helper()

	select {
	case res := <-results:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("pick did not finish")
		return pickResult{}
	}
}
