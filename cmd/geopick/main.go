package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/askelund/geopick/internal/adapter/capture"
	"github.com/askelund/geopick/internal/adapter/capture/terminal"
	"github.com/askelund/geopick/internal/adapter/capture/web"
	"github.com/askelund/geopick/internal/adapter/mapdata/naturalearth"
	"github.com/askelund/geopick/internal/domain"
	"github.com/askelund/geopick/internal/domain/valueobject"
	"github.com/askelund/geopick/internal/infrastructure/config"
	"github.com/askelund/geopick/internal/infrastructure/observability"
	"github.com/askelund/geopick/internal/usecase/pick"
)

// Version is injected at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return exitError
	}

	var (
		extentFlag     = flag.String("extent", "", "initial viewport as xmin,xmax,ymin,ymax (default: the whole world)")
		resolutionFlag = flag.String("resolution", cfg.Picker.Resolution, "map resolution: low or medium")
		roundFlag      = flag.Int("round", cfg.Picker.RoundTo, "decimal places in the printed extent, -1 to print full precision")
		modeFlag       = flag.String("mode", cfg.Picker.Mode, "capture mode: tui or web")
		versionFlag    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println("geopick " + Version)
		return exitOK
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return exitError
	}
	defer logger.Sync()

	viewport, err := parseExtent(*extentFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "geopick: %v\n", err)
		return exitUsage
	}

	var capturer capture.Capturer
	switch *modeFlag {
	case "tui":
		capturer = terminal.NewCapturer(logger)
	case "web":
		capturer = web.NewCapturer(cfg.Web, os.Stdout, logger)
	default:
		fmt.Fprintf(os.Stderr, "geopick: unknown mode %q (want tui or web)\n", *modeFlag)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := naturalearth.NewProvider(cfg.Dataset, logger)
	svc := pick.NewService(provider, capturer, os.Stdout)

	input := pick.Input{
		Viewport:   viewport,
		Resolution: *resolutionFlag,
		Round:      valueobject.Precision(*roundFlag),
	}

	if _, err := svc.Pick(ctx, input); err != nil {
		fmt.Fprintf(os.Stderr, "geopick: %v\n", err)
		if errors.Is(err, domain.ErrInvalidResolution) || errors.Is(err, domain.ErrInvalidExtent) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

// parseExtent reads the -extent flag. An empty flag means the caller wants
// the default world viewport, reported here as nil.
func parseExtent(s string) (*valueobject.Extent, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid extent %q: want xmin,xmax,ymin,ymax", s)
	}

	vals := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid extent %q: %q is not a number", s, strings.TrimSpace(part))
		}
		vals[i] = v
	}

	ext := valueobject.NewExtent(vals[0], vals[1], vals[2], vals[3])
	return &ext, nil
}
