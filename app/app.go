// Package app wires configuration, the model cascade and the pipelines
// into one value.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/neer-farm/neer/advisor"
	"github.com/neer-farm/neer/cascade"
	"github.com/neer-farm/neer/config"
	"github.com/neer-farm/neer/cropdoctor"
	"github.com/neer-farm/neer/provider"
	"github.com/neer-farm/neer/schemes"
	"github.com/neer-farm/neer/weather"

	// Registers the "gemini" provider.
	_ "github.com/neer-farm/neer/gemini"
)

// App holds the constructed components. Fields are read-only after New.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	Dispatcher *cascade.Dispatcher
	Doctor     *cropdoctor.Doctor
	Catalog    *schemes.Catalog
	Schemes    *schemes.Navigator
	Weather    *weather.Scout
	Advisor    *advisor.Advisor

	client      provider.Client
	ownsClient  bool
	sqliteCache *advisor.SQLiteCache
	stopWatch   context.CancelFunc
	watchDone   <-chan struct{}
}

type options struct {
	client      provider.Client
	logger      *slog.Logger
	source      weather.Source
	cascadeOpts []cascade.Option
}

// Option configures New.
type Option func(*options)

// WithClient uses c instead of building one from the provider registry.
func WithClient(c provider.Client) Option {
	return func(o *options) { o.client = c }
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWeatherSource sets the forecast source used by the weather scout.
func WithWeatherSource(src weather.Source) Option {
	return func(o *options) { o.source = src }
}

// WithCascadeOptions passes extra options to the dispatcher.
func WithCascadeOptions(opts ...cascade.Option) Option {
	return func(o *options) { o.cascadeOpts = append(o.cascadeOpts, opts...) }
}

// New validates cfg and builds every component. On error, anything
// already opened is closed.
func New(cfg config.Config, opts ...Option) (a *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		level, _ := cfg.Level()
		o.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	a = &App{Config: cfg, Logger: o.logger}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	a.client = o.client
	if a.client == nil {
		a.client, err = provider.FromConfig(cfg.Provider)
		if err != nil {
			return a, fmt.Errorf("create provider: %w", err)
		}
		a.ownsClient = true
	}

	cascadeOpts := append([]cascade.Option{cascade.WithLogger(o.logger)}, o.cascadeOpts...)
	a.Dispatcher, err = cascade.New(a.client, cfg.Cascade, cascadeOpts...)
	if err != nil {
		return a, fmt.Errorf("create dispatcher: %w", err)
	}

	kb := cropdoctor.NewMemoryKB(nil)
	if cfg.Data.DiseaseKB != "" {
		if kb, err = cropdoctor.LoadKB(cfg.Data.DiseaseKB); err != nil {
			return a, err
		}
	}
	a.Doctor = cropdoctor.New(a.Dispatcher, kb, cropdoctor.WithLogger(o.logger))

	a.Catalog = schemes.NewCatalog(nil)
	if cfg.Data.Schemes != "" {
		if a.Catalog, err = schemes.LoadCatalog(cfg.Data.Schemes); err != nil {
			return a, err
		}
		if cfg.Data.WatchSchemes {
			ctx, cancel := context.WithCancel(context.Background())
			done, werr := a.Catalog.Watch(ctx)
			if werr != nil {
				cancel()
				return a, werr
			}
			a.stopWatch, a.watchDone = cancel, done
		}
	}
	a.Schemes = schemes.NewNavigator(a.Catalog, a.Dispatcher, schemes.WithLogger(o.logger))

	cal := &weather.Calendar{}
	if cfg.Data.CropCalendar != "" {
		if cal, err = weather.LoadCalendar(cfg.Data.CropCalendar); err != nil {
			return a, err
		}
	}
	weatherOpts := []weather.Option{weather.WithLogger(o.logger)}
	if o.source != nil {
		weatherOpts = append(weatherOpts, weather.WithSource(o.source))
	}
	a.Weather = weather.NewScout(a.Dispatcher, cal, weatherOpts...)

	var cache advisor.Cache = advisor.NewMemoryCache()
	if cfg.Cache.Path != "" {
		if a.sqliteCache, err = advisor.NewSQLiteCache(cfg.Cache.Path); err != nil {
			return a, err
		}
		cache = a.sqliteCache
	}
	a.Advisor = advisor.New(a.Dispatcher, advisor.WithCache(cache), advisor.WithLogger(o.logger))

	o.logger.Info("neer ready",
		slog.String("provider", a.client.Provider()),
		slog.Any("models", a.Dispatcher.Models()),
		slog.Int("max_attempts", a.Dispatcher.MaxAttempts()),
		slog.Int("schemes", a.Catalog.Len()))
	return a, nil
}

// Close stops the scheme watcher and releases the cache. The provider
// client is closed only when New built it; a client passed with WithClient
// stays open.
func (a *App) Close() error {
	var errs []error
	if a.stopWatch != nil {
		a.stopWatch()
		<-a.watchDone
		a.stopWatch = nil
	}
	if a.sqliteCache != nil {
		if err := a.sqliteCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
		a.sqliteCache = nil
	}
	if a.client != nil && a.ownsClient {
		if err := a.client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close provider: %w", err))
		}
	}
	a.client = nil
	return errors.Join(errs...)
}
