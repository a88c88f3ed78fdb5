package providers

import (
	"net/http"
	"reflect"

	"go.uber.org/zap"

	"github.com/km-arc/go-ioc/framework/config"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/inspect"
	"github.com/km-arc/go-ioc/framework/logging"
)

// Contracts the framework providers register.
var (
	RepositoryContract = container.ContractOf[config.Repository]()
	LoggerContract     = container.ContractOf[logging.Logger]()
	InspectorContract  = container.ContractOf[container.Inspector]()
	HandlerContract    = container.ContractOf[http.Handler]()
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider registers the loaded configuration as an instance.
//
// Registered contracts:
//   - config.Repository → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	return app.RegisterInstance(p.Config, RepositoryContract)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the application logger as an instance.
//
// Registered contracts:
//   - logging.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger logging.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	return app.RegisterInstance(p.Logger, LoggerContract)
}

// Boot reports the registry once every eager provider has registered.
func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	p.Logger.Info("container booted", zap.Int("bindings", len(app.Bindings())))
	return nil
}

// ── ContainerServiceProvider ──────────────────────────────────────────────────

// ContainerServiceProvider registers the container itself under its
// read-only Inspector contract.
type ContainerServiceProvider struct {
	container.BaseProvider
}

func (p *ContainerServiceProvider) Register(app *container.Container) error {
	return app.RegisterInstance(app, InspectorContract)
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider registers the diagnostics handler. It is deferred:
// nothing is registered until http.Handler is first resolved.
//
// Registered contracts:
//   - http.Handler → *inspect.Server, built by inspect.NewServer with the
//     container.Inspector and logging.Logger registrations injected
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) error {
	return app.RegisterType(container.Describe[*inspect.Server]().
		Implements(HandlerContract).
		Constructor(inspect.NewServer))
}

func (p *InspectServiceProvider) IsDeferred() bool { return true }

func (p *InspectServiceProvider) Provides() []reflect.Type {
	return []reflect.Type{HandlerContract}
}
