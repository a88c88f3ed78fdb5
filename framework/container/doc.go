// Package container provides a small reflection-driven IoC (Inversion of
// Control) container for Go.
//
// # Overview
//
// The container keeps two independent mappings keyed by contract, where a
// contract is an interface type:
//
//   - the type mapping: contract → implementation Descriptor. Resolving the
//     contract constructs a new instance every time, resolving constructor
//     parameters recursively.
//   - the instance mapping: contract → pre-built value, returned as is.
//
// Resolution consults the type mapping first, then the instance mapping.
// A contract found in neither yields an empty result at the top level and
// an UnresolvedDependencyError when it is a constructor parameter.
//
// # Descriptors
//
// Go types do not list the interfaces they implement and have no
// constructors, so both are declared in a Descriptor:
//
//	d := container.Describe[*UserService]().
//	    Implements(container.ContractOf[Users]()).
//	    Constructor(NewUserServiceWithCache).   // func(Repo, Cache) *UserService
//	    Constructor(NewUserService)             // func(Repo) *UserService
//
// The first constructor whose parameters are all interfaces is used. A
// descriptor without constructors is built from its zero value.
//
// Contracts declared with DeclareContract (or Declare[I]) are matched
// against every registered type and instance, so Implements can be omitted
// for them.
//
// # Registering
//
//	// Type mapping — last registration for a contract wins
//	c.RegisterType(container.Describe[*Concrete]().Implements(container.ContractOf[Interface]()))
//
//	// Instance mapping — a second instance for the same contract fails
//	c.RegisterInstance(cfg, container.ContractOf[config.Repository]())
//
//	// Factory — only reveals the type to register, the sample is discarded
//	c.RegisterFactory(func() *Concrete { return &Concrete{} })
//
//	// Assembly — every exported struct type of the set
//	c.RegisterAssemblyTypes(container.NewAssembly("billing", descriptors...))
//
// # Resolving
//
//	// Untyped
//	raw, err := c.Resolve(container.ContractOf[Interface]())
//
//	// Generic (preferred — no type assertion required)
//	obj, err := container.Resolve[Interface](c)
//
// # Cycles
//
// By default nothing guards against registration cycles: resolving A whose
// constructor needs B whose constructor needs A recurses until the
// goroutine stack overflows. WithCycleDetection and WithMaxDepth turn such
// cycles into errors.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Container) error {
//	    return c.RegisterType(container.Describe[*SmtpMailer]().
//	        Implements(container.ContractOf[Mailer]()).
//	        Constructor(NewSmtpMailer))
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// A deferred provider (IsDeferred returns true) is only registered when one
// of the contracts listed by Provides is first resolved.
package container
