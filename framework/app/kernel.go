package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-ioc/framework/config"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/framework/providers"
)

// Version of the framework.
const Version = "0.1.0"

const shutdownTimeout = 5 * time.Second

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.RegisterType(), app.RegisterInstance() and app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config *config.Config
	log    logging.Logger
}

// New loads and validates configuration, builds the logger and a container
// configured from it, and registers the framework providers. Providers are
// not booted until Boot or Run.
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: invalid configuration: %w", err)
	}

	log, err := logging.New(cfg.Log, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	log = log.With(zap.String("app", cfg.App.Name))

	opts := append(cfg.Container.Options(), container.WithLogger(log.Zap()))
	c := container.New(opts...)

	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		config:    cfg,
		log:       log,
	}

	// Register framework core providers
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.ContainerServiceProvider{},
		&providers.InspectServiceProvider{},
	} {
		if err := app.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() logging.Logger { return a.log }

// Handler resolves the diagnostics handler, loading its deferred provider.
func (a *Application) Handler() (http.Handler, error) {
	h, err := container.Resolve[http.Handler](a.Container)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errors.New("app: no http.Handler registered")
	}
	return h, nil
}

// Run boots the application (if needed) and, when the inspector is enabled,
// serves it on Inspect.Addr until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	if !a.config.Inspect.Enabled {
		a.log.Info("inspector disabled")
		return nil
	}

	ln, err := net.Listen("tcp", a.config.Inspect.Addr)
	if err != nil {
		return fmt.Errorf("app: listen %s: %w", a.config.Inspect.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves the diagnostics handler on ln and shuts down gracefully once
// ctx is done. It returns nil after a clean shutdown.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	h, err := a.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("inspector listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("env", a.config.App.Env))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.log.Info("shutting down inspector")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.config.App.Debug }
