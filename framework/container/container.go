package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ── Options ───────────────────────────────────────────────────────────────────

// InstancePolicy decides what RegisterInstance does with a contract that
// already holds an instance.
type InstancePolicy int

const (
	// InstanceStrict rejects the second instance with a DuplicateContractError.
	InstanceStrict InstancePolicy = iota
	// InstanceOverwrite replaces the stored instance, like RegisterType does.
	InstanceOverwrite
)

func (p InstancePolicy) String() string {
	if p == InstanceOverwrite {
		return "overwrite"
	}
	return "strict"
}

// Option configures a Container.
type Option func(*options)

type options struct {
	logger         *zap.Logger
	instancePolicy InstancePolicy
	detectCycles   bool
	maxDepth       int
}

// WithLogger sets the logger used for registration and resolution traces.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInstancePolicy selects strict (default) or overwrite semantics for
// RegisterInstance.
func WithInstancePolicy(p InstancePolicy) Option {
	return func(o *options) { o.instancePolicy = p }
}

// WithCycleDetection makes Resolve fail with a CyclicDependencyError when a
// contract is requested while it is already being built. Without it a cycle
// recurses until the goroutine stack is exhausted.
func WithCycleDetection(enabled bool) Option {
	return func(o *options) { o.detectCycles = enabled }
}

// WithMaxDepth bounds the number of nested constructor resolutions.
// Zero or a negative value means unbounded.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the registry. It maps contracts (interface types) either to
// an implementation descriptor, built on every Resolve, or to a pre-built
// instance, returned as is.
//
// It supports:
//   - RegisterType / RegisterAssemblyTypes (type mapping, last one wins)
//   - RegisterInstance (instance mapping, duplicates rejected)
//   - RegisterFactory (registers the type a producer returns)
//   - Resolve / Resolve[T] (recursive constructor injection)
//   - Defer (lazy registration on first miss, used by deferred providers)
type Container struct {
	mu sync.RWMutex

	// contract → implementation descriptor
	types map[reflect.Type]*Descriptor

	// contract → pre-built instance
	instances map[reflect.Type]any

	// implementation type → last descriptor registered for it
	known map[reflect.Type]*Descriptor

	// contracts used to infer what a type implements
	catalog map[reflect.Type]struct{}

	// contract → loader run on the first miss
	deferred map[reflect.Type]*deferredLoad

	opts options
	log  *zap.Logger
}

// New creates an empty container.
func New(opts ...Option) *Container {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Container{
		types:     make(map[reflect.Type]*Descriptor),
		instances: make(map[reflect.Type]any),
		known:     make(map[reflect.Type]*Descriptor),
		catalog:   make(map[reflect.Type]struct{}),
		deferred:  make(map[reflect.Type]*deferredLoad),
		opts:      o,
		log:       o.logger.Named("container"),
	}
}

// ── Deferred registration ─────────────────────────────────────────────────────

// Defer installs loader for contract. The first time contract misses both
// mappings, loader runs and the lookup is retried. Callers that miss the same
// contract while loader runs wait for it. A loader that fails stays installed
// and runs again on the next miss. Loaders for contracts that are already
// registered are never run.
func (c *Container) Defer(contract reflect.Type, loader func() error) error {
	if !IsContract(contract) {
		return fmt.Errorf("%w: %v", ErrNotContract, contract)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deferred[contract] = &deferredLoad{loader: loader}
	c.catalog[contract] = struct{}{}
	return nil
}

// deferredLoad serialises the runs of one loader.
type deferredLoad struct {
	mu     sync.Mutex
	loader func() error
	done   bool
}

func (l *deferredLoad) run() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return nil
	}
	if err := l.loader(); err != nil {
		return err
	}
	l.done = true
	return nil
}

// loadDeferred runs the loader installed for contract, if any, and reports
// whether there was one. A successful loader is uninstalled.
func (c *Container) loadDeferred(contract reflect.Type) (bool, error) {
	c.mu.RLock()
	l, ok := c.deferred[contract]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if err := l.run(); err != nil {
		return true, err
	}

	c.mu.Lock()
	if c.deferred[contract] == l {
		delete(c.deferred, contract)
	}
	c.mu.Unlock()
	return true, nil
}

// dropDeferred removes the loaders of contracts.
func (c *Container) dropDeferred(contracts ...reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, contract := range contracts {
		delete(c.deferred, contract)
	}
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Inspector is the read-only view of a container used by diagnostics.
type Inspector interface {
	Bindings() []Binding
}

// Binding describes one registry entry.
type Binding struct {
	Contract       string `json:"contract"`
	Kind           string `json:"kind"` // "type" | "instance" | "deferred"
	Implementation string `json:"implementation,omitempty"`
	Constructors   int    `json:"constructors,omitempty"`
}

const (
	KindType     = "type"
	KindInstance = "instance"
	KindDeferred = "deferred"
)

// Has reports whether contract has an entry in either mapping, or a
// deferred loader.
func (c *Container) Has(contract reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hasType := c.types[contract]
	_, hasInstance := c.instances[contract]
	_, hasDeferred := c.deferred[contract]
	return hasType || hasInstance || hasDeferred
}

// Bindings returns every entry sorted by contract key, type mapping entries
// before instance entries for the same contract.
func (c *Container) Bindings() []Binding {
	c.mu.RLock()
	out := make([]Binding, 0, len(c.types)+len(c.instances)+len(c.deferred))
	for contract, d := range c.types {
		out = append(out, Binding{
			Contract:       ContractKey(contract),
			Kind:           KindType,
			Implementation: ContractKey(d.typ),
			Constructors:   len(d.constructors),
		})
	}
	for contract, inst := range c.instances {
		out = append(out, Binding{
			Contract:       ContractKey(contract),
			Kind:           KindInstance,
			Implementation: ContractKey(reflect.TypeOf(inst)),
		})
	}
	for contract := range c.deferred {
		out = append(out, Binding{Contract: ContractKey(contract), Kind: KindDeferred})
	}
	c.mu.RUnlock()

	rank := map[string]int{KindType: 0, KindInstance: 1, KindDeferred: 2}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Contract != out[j].Contract {
			return out[i].Contract < out[j].Contract
		}
		return rank[out[i].Kind] < rank[out[j].Kind]
	})
	return out
}
