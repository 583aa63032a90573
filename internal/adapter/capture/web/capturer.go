// Package web captures an extent through a one-shot browser page, for
// sessions where no interactive terminal is available.
package web

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/askelund/geopick/internal/adapter/capture"
	"github.com/askelund/geopick/internal/domain"
	"github.com/askelund/geopick/internal/domain/valueobject"
	"github.com/askelund/geopick/internal/infrastructure/config"
	"github.com/askelund/geopick/internal/infrastructure/server"
	"github.com/askelund/geopick/internal/pkg/httputil"
)

//go:embed templates/picker.html
var pickerPage []byte

var upgrader = websocket.Upgrader{
	// The page is served from the same loopback origin as the socket, so
	// the origin check adds nothing here. Access is guarded by the token.
	CheckOrigin: func(*http.Request) bool { return true },
}

type Capturer struct {
	cfg     config.WebConfig
	logger  *zap.Logger
	out     io.Writer
	openURL func(url string) error
}

func NewCapturer(cfg config.WebConfig, out io.Writer, logger *zap.Logger) *Capturer {
	return &Capturer{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		openURL: openBrowser,
	}
}

type outcome struct {
	first  valueobject.Point
	second valueobject.Point
	err    error
}

// session is the state of a single capture. The token keeps other local
// processes from feeding us corners.
type session struct {
	token   string
	req     capture.Request
	logger  *zap.Logger
	results chan outcome
	once    sync.Once
}

func (s *session) deliver(o outcome) {
	s.once.Do(func() { s.results <- o })
}

// Capture serves the picker page on a loopback port and blocks until the
// page reports two corner clicks, the server fails, or ctx is done.
func (c *Capturer) Capture(ctx context.Context, req capture.Request) (valueobject.Point, valueobject.Point, error) {
	var zero valueobject.Point

	sess := &session{
		token:   uuid.NewString(),
		req:     req,
		logger:  c.logger,
		results: make(chan outcome, 1),
	}

	srv, err := server.Listen(server.Config{
		Addr:         c.cfg.Addr(),
		ReadTimeout:  c.cfg.ReadTimeout,
		WriteTimeout: c.cfg.WriteTimeout,
		Handler:      newRouter(sess, c.logger, c.cfg.Environment),
		Logger:       c.logger,
	})
	if err != nil {
		return zero, zero, fmt.Errorf("%w: %v", domain.ErrCaptureFailed, err)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			c.logger.Warn("shutting down picker server", zap.Error(err))
		}
	}()

	url := fmt.Sprintf("http://%s/?token=%s", srv.Addr(), sess.token)
	fmt.Fprintf(c.out, "Pick two corners in your browser: %s\n", url)
	if c.cfg.OpenBrowser {
		if err := c.openURL(url); err != nil {
			c.logger.Debug("could not open browser", zap.Error(err))
		}
	}

	select {
	case o := <-sess.results:
		if o.err != nil {
			return zero, zero, o.err
		}
		c.logger.Debug("selection captured",
			zap.Float64("first_lon", o.first.Lon),
			zap.Float64("first_lat", o.first.Lat),
			zap.Float64("second_lon", o.second.Lon),
			zap.Float64("second_lat", o.second.Lat),
		)
		return o.first, o.second, nil
	case err := <-serveErr:
		return zero, zero, fmt.Errorf("%w: %v", domain.ErrCaptureFailed, err)
	case <-ctx.Done():
		return zero, zero, fmt.Errorf("%w: %v", domain.ErrCaptureFailed, ctx.Err())
	}
}

func (s *session) authorized(c *gin.Context) bool {
	if c.Query("token") == s.token {
		return true
	}
	httputil.Error(c, http.StatusForbidden, "invalid or missing token")
	return false
}

func (s *session) page(c *gin.Context) {
	if !s.authorized(c) {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", pickerPage)
}

func (s *session) mapData(c *gin.Context) {
	if !s.authorized(c) {
		return
	}
	httputil.OK(c, newMapPayload(s.req.Viewport, s.req.Map))
}

// socket collects the two corner clicks. A connection that closes before
// delivering both counts as the user walking away.
func (s *session) socket(c *gin.Context) {
	if !s.authorized(c) {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var corners []valueobject.Point
	for len(corners) < 2 {
		var msg clickMessage
		if err := conn.ReadJSON(&msg); err != nil {
			s.deliver(outcome{err: domain.ErrCaptureAborted})
			return
		}
		corners = append(corners, valueobject.NewPoint(msg.Lon, msg.Lat))
		s.logger.Debug("corner received", zap.Int("count", len(corners)))
	}

	if err := conn.WriteJSON(gin.H{"status": "done"}); err != nil {
		s.logger.Debug("could not confirm selection", zap.Error(err))
	}
	s.deliver(outcome{first: corners[0], second: corners[1]})
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
