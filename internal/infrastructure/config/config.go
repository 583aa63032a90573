package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Picker  PickerConfig
	Dataset DatasetConfig
	Web     WebConfig
	Log     LogConfig
}

type PickerConfig struct {
	Resolution string `envconfig:"GEOPICK_RESOLUTION" default:"low"`
	RoundTo    int    `envconfig:"GEOPICK_ROUND_TO" default:"3"`
	Mode       string `envconfig:"GEOPICK_MODE" default:"tui"`
}

type DatasetConfig struct {
	// BaseURL is the root the Natural Earth GeoJSON files are fetched
	// from. Any mirror with the same layout works.
	BaseURL      string        `envconfig:"GEOPICK_DATA_URL" default:"https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson"`
	DataDir      string        `envconfig:"GEOPICK_DATA_DIR"`
	CacheDir     string        `envconfig:"GEOPICK_CACHE_DIR"`
	FetchTimeout time.Duration `envconfig:"GEOPICK_FETCH_TIMEOUT" default:"60s"`
}

type WebConfig struct {
	Host            string        `envconfig:"GEOPICK_WEB_HOST" default:"127.0.0.1"`
	Port            int           `envconfig:"GEOPICK_WEB_PORT" default:"0"`
	ReadTimeout     time.Duration `envconfig:"GEOPICK_WEB_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"GEOPICK_WEB_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"GEOPICK_WEB_SHUTDOWN_TIMEOUT" default:"5s"`
	Environment     string        `envconfig:"GEOPICK_ENVIRONMENT" default:"production"`
	OpenBrowser     bool          `envconfig:"GEOPICK_WEB_OPEN_BROWSER" default:"true"`
}

func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LogConfig struct {
	Level  string `envconfig:"GEOPICK_LOG_LEVEL" default:"error"`
	Format string `envconfig:"GEOPICK_LOG_FORMAT" default:"console"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}
