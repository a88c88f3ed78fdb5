package container

import (
	"fmt"
	"reflect"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the registrations of one part of an application.
//
// Register is called when the provider is added (or, for deferred
// providers, when one of its contracts is first resolved). Boot is called
// after ALL eager providers have been registered, making it safe to resolve
// other contracts inside Boot.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(c *container.Container) error {
//	    return c.RegisterType(container.Describe[*SmtpMailer]().
//	        Implements(container.ContractOf[Mailer]()).
//	        Constructor(NewSmtpMailer))
//	}
type ServiceProvider interface {
	// Register adds registrations to the container.
	// Do NOT resolve other contracts here — use Boot for that.
	Register(c *Container) error

	// Boot is called after all providers are registered.
	Boot(c *Container) error

	// Provides lists the contracts a deferred provider registers.
	Provides() []reflect.Type

	// IsDeferred returns true if the provider should only be registered when
	// one of its Provides() contracts is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred. Embed it and only override what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error  { return nil }
func (p *BaseProvider) Provides() []reflect.Type { return nil }
func (p *BaseProvider) IsDeferred() bool         { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method unless it is
// deferred. Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		load := r.loader(provider)
		for _, contract := range provider.Provides() {
			if err := r.app.Defer(contract, load); err != nil {
				return fmt.Errorf("container: deferring %T: %w", provider, err)
			}
		}
		return nil
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("container: registering %T: %w", provider, err)
	}
	r.eager = append(r.eager, provider)

	// If already booted, boot this provider immediately
	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: booting %T: %w", provider, err)
		}
	}
	return nil
}

// loader registers a deferred provider the first time any of its contracts
// misses. Concurrent misses on sibling contracts wait for that load. If
// Register fails the provider's loaders stay installed and the next miss
// retries.
func (r *ProviderRegistry) loader(provider ServiceProvider) func() error {
	var (
		mu                 sync.Mutex
		registered, booted bool
	)
	return func() error {
		mu.Lock()
		defer mu.Unlock()
		if !registered {
			if err := provider.Register(r.app); err != nil {
				return err
			}
			registered = true
			r.app.dropDeferred(provider.Provides()...)
		}
		if r.booted && !booted {
			booted = true
			return provider.Boot(r.app)
		}
		return nil
	}
}

// Boot calls Boot on all eager providers, in registration order.
// Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: booting %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
