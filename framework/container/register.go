package container

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ── Registration ──────────────────────────────────────────────────────────────

// RegisterType maps every contract the descriptor's type satisfies to the
// descriptor, replacing any previous type mapping for those contracts.
// It is a no-op when the type satisfies no known contract.
//
//	c.RegisterType(container.Describe[*Concrete]().Implements(container.ContractOf[Interface]()))
func (c *Container) RegisterType(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidImplementation)
	}
	if d.err != nil {
		return d.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registerType(d)
}

// registerType stores a copy of d, so later changes to d do not reach the
// registration. Must hold mu.Lock.
func (c *Container) registerType(d *Descriptor) error {
	contracts, err := c.satisfiedContracts(d.typ, d.contracts)
	if err != nil {
		return err
	}
	d = d.clone()

	c.known[d.typ] = d
	for _, contract := range contracts {
		if prev, ok := c.types[contract]; ok && prev.typ != d.typ {
			c.log.Debug("type mapping replaced",
				zap.String("contract", ContractKey(contract)),
				zap.String("previous", ContractKey(prev.typ)),
				zap.String("implementation", ContractKey(d.typ)))
		}
		c.types[contract] = d
	}

	c.log.Debug("registered type",
		zap.String("implementation", ContractKey(d.typ)),
		zap.Int("contracts", len(contracts)))
	return nil
}

// RegisterInstance maps every contract the instance's runtime type satisfies
// (the explicit contracts plus every catalog contract it implements) to
// instance. Under the default strict policy a contract that already holds an
// instance makes the whole call fail with a DuplicateContractError and
// nothing is registered.
//
//	c.RegisterInstance(cfg, container.ContractOf[config.Repository]())
func (c *Container) RegisterInstance(instance any, contracts ...reflect.Type) error {
	if instance == nil {
		return ErrNilInstance
	}
	t := reflect.TypeOf(instance)

	c.mu.Lock()
	defer c.mu.Unlock()

	satisfied, err := c.satisfiedContracts(t, contracts)
	if err != nil {
		return err
	}

	if c.opts.instancePolicy == InstanceStrict {
		for _, contract := range satisfied {
			if _, exists := c.instances[contract]; exists {
				c.log.Warn("duplicate instance registration",
					zap.String("contract", ContractKey(contract)),
					zap.String("instance", ContractKey(t)))
				return &DuplicateContractError{Contract: contract}
			}
		}
	}

	for _, contract := range satisfied {
		c.instances[contract] = instance
	}

	c.log.Debug("registered instance",
		zap.String("instance", ContractKey(t)),
		zap.Int("contracts", len(satisfied)))
	return nil
}

// RegisterFactory calls producer once and registers the runtime type of the
// value it returns, not the value itself: every later Resolve builds a new
// instance. producer must be a func() T or func() (T, error). When a
// descriptor was already registered for that runtime type its constructors
// are reused, otherwise the type is built from its zero value.
//
//	c.RegisterFactory(func() *Concrete { return &Concrete{} })
func (c *Container) RegisterFactory(producer any) error {
	v := reflect.ValueOf(producer)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("%w: %T is not a func", ErrInvalidFactory, producer)
	}
	ft := v.Type()
	switch {
	case ft.NumIn() != 0:
		return fmt.Errorf("%w: %s must take no arguments", ErrInvalidFactory, ft)
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return fmt.Errorf("%w: %s must return T or (T, error)", ErrInvalidFactory, ft)
	}

	out := v.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return fmt.Errorf("%w: producer failed: %w", ErrInvalidFactory, out[1].Interface().(error))
	}

	sample := out[0].Interface()
	if sample == nil {
		return fmt.Errorf("%w: producer returned nil", ErrNilInstance)
	}
	t := reflect.TypeOf(sample)

	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.known[t]
	if !ok {
		d = DescribeType(t)
		if d.err != nil {
			return d.err
		}
	}
	c.log.Debug("factory revealed implementation", zap.String("implementation", ContractKey(t)))
	return c.registerType(d)
}

// RegisterAssemblyTypes registers every exported, class-like type of the
// assembly with RegisterType. Other descriptors are skipped. Every eligible
// descriptor is checked first: if one is invalid nothing is registered.
func (c *Container) RegisterAssemblyTypes(a *Assembly) error {
	if a == nil {
		return nil
	}
	eligible := a.eligible()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range eligible {
		err := d.err
		if err == nil {
			err = checkContracts(d.typ, d.contracts)
		}
		if err != nil {
			return fmt.Errorf("container: assembly %s: %w", a.name, err)
		}
	}
	for _, d := range eligible {
		if err := c.registerType(d); err != nil {
			return fmt.Errorf("container: assembly %s: %w", a.name, err)
		}
	}
	return nil
}
