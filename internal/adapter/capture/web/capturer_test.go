package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askelund/geopick/internal/adapter/capture"
	"github.com/askelund/geopick/internal/domain"
	"github.com/askelund/geopick/internal/domain/entity"
	"github.com/askelund/geopick/internal/domain/valueobject"
	"github.com/askelund/geopick/internal/infrastructure/config"
)

func testConfig() config.WebConfig {
	return config.WebConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
		Environment:     "production",
	}
}

func testRequest() capture.Request {
	land := entity.NewLandmass("Squareland", entity.Ring{
		valueobject.NewPoint(0, 0),
		valueobject.NewPoint(20, 0),
		valueobject.NewPoint(20, 10),
		valueobject.NewPoint(0, 10),
	}, nil)
	return capture.Request{
		Viewport: valueobject.WorldExtent(),
		Map:      entity.NewWorldMap(valueobject.ResolutionLow, []entity.Landmass{land}),
	}
}

type captureResult struct {
	first  valueobject.Point
	second valueobject.Point
	err    error
}

// startCapture runs Capture in the background and returns the page URL once
// the server is listening.
func startCapture(t *testing.T, ctx context.Context) (string, chan captureResult) {
	t.Helper()

	cfg := testConfig()
	cfg.OpenBrowser = true

	c := NewCapturer(cfg, io.Discard, zap.NewNop())
	urls := make(chan string, 1)
	c.openURL = func(u string) error {
		urls <- u
		return nil
	}

	results := make(chan captureResult, 1)
	go func() {
		first, second, err := c.Capture(ctx, testRequest())
		results <- captureResult{first: first, second: second, err: err}
	}()

	select {
	case u := <-urls:
		return u, results
	case <-time.After(5 * time.Second):
		t.Fatal("picker server did not start")
		return "", nil
	}
}

func waitResult(t *testing.T, results chan captureResult) captureResult {
	t.Helper()
	select {
	case res := <-results:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("capture did not finish")
		return captureResult{}
	}
}

func dialSocket(t *testing.T, pageURL string) *websocket.Conn {
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

func TestCapturerReturnsClickedCorners(t *testing.T) {
	pageURL, results := startCapture(t, context.Background())

	conn := dialSocket(t, pageURL)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(clickMessage{Lon: 10.2, Lat: 5.1}))
	require.NoError(t, conn.WriteJSON(clickMessage{Lon: -3.4, Lat: -2.9}))

	var confirm map[string]string
	require.NoError(t, conn.ReadJSON(&confirm))
	assert.Equal(t, "done", confirm["status"])

	res := waitResult(t, results)
	require.NoError(t, res.err)
	assert.Equal(t, valueobject.NewPoint(10.2, 5.1), res.first)
	assert.Equal(t, valueobject.NewPoint(-3.4, -2.9), res.second)
}

func TestCapturerServesPageAndMapData(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pageURL, results := startCapture(t, ctx)

	resp, err := http.Get(pageURL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<canvas")

	u, err := url.Parse(pageURL)
	require.NoError(t, err)
	u.Path = "/api/map"

	resp, err = http.Get(u.String())
	require.NoError(t, err)
	var payload struct {
		Viewport   viewportPayload `json:"viewport"`
		Resolution string          `json:"resolution"`
		Features   struct {
			Type     string `json:"type"`
			Features []struct {
				Geometry struct {
					Type string `json:"type"`
				} `json:"geometry"`
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		} `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, viewportPayload{XMin: -180, XMax: 180, YMin: -90, YMax: 90}, payload.Viewport)
	assert.Equal(t, "low", payload.Resolution)
	assert.Equal(t, "FeatureCollection", payload.Features.Type)
	require.Len(t, payload.Features.Features, 1)
	assert.Equal(t, "Polygon", payload.Features.Features[0].Geometry.Type)
	assert.Equal(t, "Squareland", payload.Features.Features[0].Properties["name"])

	cancel()
	res := waitResult(t, results)
	assert.ErrorIs(t, res.err, domain.ErrCaptureFailed)
}

func TestCapturerRejectsBadToken(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pageURL, results := startCapture(t, ctx)

	u, err := url.Parse(pageURL)
	require.NoError(t, err)
	u.RawQuery = "token=wrong"

	for _, path := range []string{"/", "/api/map"} {
		u.Path = path
		resp, err := http.Get(u.String())
		require.NoError(t, err)
		var body struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Equal(t, "invalid or missing token", body.Error, path)
	}

	u.Path = "/ws"
	u.Scheme = "ws"
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	require.Nil(t, conn)

	cancel()
	res := waitResult(t, results)
	assert.ErrorIs(t, res.err, domain.ErrCaptureFailed)
}

func TestCapturerAbortsWhenPageCloses(t *testing.T) {
	pageURL, results := startCapture(t, context.Background())

	conn := dialSocket(t, pageURL)
	require.NoError(t, conn.WriteJSON(clickMessage{Lon: 1, Lat: 2}))
	require.NoError(t, conn.Close())

	res := waitResult(t, results)
	assert.ErrorIs(t, res.err, domain.ErrCaptureAborted)
	assert.ErrorIs(t, res.err, domain.ErrCaptureFailed)
}

func TestCapturerPrintsPageURL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig()
	cfg.OpenBrowser = false

	out := &strings.Builder{}
	c := NewCapturer(cfg, out, zap.NewNop())
	opened := false
	c.openURL = func(string) error {
		opened = true
		return nil
	}

	results := make(chan captureResult, 1)
	go func() {
		_, _, err := c.Capture(ctx, testRequest())
		results <- captureResult{err: err}
	}()

	cancel()
	res := waitResult(t, results)
	assert.ErrorIs(t, res.err, domain.ErrCaptureFailed)
	assert.Contains(t, out.String(), "Pick two corners in your browser: http://127.0.0.1:")
	assert.Contains(t, out.String(), "?token=")
	assert.False(t, opened)
}
