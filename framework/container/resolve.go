package container

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// ── Resolution ────────────────────────────────────────────────────────────────

// frame is one contract under construction; frames link to the contract
// whose constructor requested them.
type frame struct {
	contract reflect.Type
	parent   *frame
	depth    int
}

// path returns the contracts from the outermost request down to f.
func (f *frame) path() []reflect.Type {
	if f == nil {
		return nil
	}
	out := make([]reflect.Type, f.depth)
	for cur := f; cur != nil; cur = cur.parent {
		out[cur.depth-1] = cur.contract
	}
	return out
}

// Resolve builds or looks up contract.
//
// The type mapping is consulted first (a new instance is constructed and its
// constructor parameters are resolved recursively), then the instance
// mapping. A contract found in neither returns (nil, nil): only a missing
// constructor parameter is an error.
//
//	raw, err := c.Resolve(container.ContractOf[Interface]())
func (c *Container) Resolve(contract reflect.Type) (any, error) {
	return c.resolve(contract, nil)
}

func (c *Container) resolve(contract reflect.Type, parent *frame) (any, error) {
	if err := c.guard(contract, parent); err != nil {
		return nil, err
	}

	d, inst, found := c.lookup(contract)
	if !found {
		loaded, err := c.loadDeferred(contract)
		if err != nil {
			c.log.Warn("deferred loader failed",
				zap.String("contract", ContractKey(contract)),
				zap.Error(err))
			return nil, fmt.Errorf("container: deferred loader for %s: %w", ContractKey(contract), err)
		}
		if loaded {
			d, inst, found = c.lookup(contract)
		}
	}

	switch {
	case d != nil:
		return c.build(d, contract, parent)
	case found:
		return inst, nil
	case parent != nil:
		err := &UnresolvedDependencyError{Contract: contract, Path: parent.path()}
		c.log.Warn("unresolved dependency",
			zap.String("contract", ContractKey(contract)),
			zap.String("required_by", formatPath(err.Path)))
		return nil, err
	default:
		c.log.Debug("contract not registered", zap.String("contract", ContractKey(contract)))
		return nil, nil
	}
}

// guard applies the optional depth and cycle limits. Both are off by default.
func (c *Container) guard(contract reflect.Type, parent *frame) error {
	if parent == nil {
		return nil
	}
	if c.opts.maxDepth > 0 && parent.depth > c.opts.maxDepth {
		return fmt.Errorf("%w (%d): %s -> %s",
			ErrMaxDepthExceeded, c.opts.maxDepth, formatPath(parent.path()), ContractKey(contract))
	}
	if c.opts.detectCycles {
		for f := parent; f != nil; f = f.parent {
			if f.contract == contract {
				cycle := append(parent.path()[f.depth-1:], contract)
				return &CyclicDependencyError{Path: cycle}
			}
		}
	}
	return nil
}

// lookup returns the type mapping entry, else the instance mapping entry.
func (c *Container) lookup(contract reflect.Type) (*Descriptor, any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if d, ok := c.types[contract]; ok {
		return d, nil, true
	}
	if inst, ok := c.instances[contract]; ok {
		return nil, inst, true
	}
	return nil, nil, false
}

// build constructs a new value of d's type. The container lock is not held
// while constructors run.
func (c *Container) build(d *Descriptor, contract reflect.Type, parent *frame) (any, error) {
	ctor, ok := d.selectConstructor()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no constructor taking only interfaces", ErrNoInjectableConstructor, d.typ)
	}
	if ctor == nil {
		c.log.Debug("resolved",
			zap.String("contract", ContractKey(contract)),
			zap.String("implementation", ContractKey(d.typ)))
		return d.zero().Interface(), nil
	}

	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	here := &frame{contract: contract, parent: parent, depth: depth}

	args := make([]reflect.Value, len(ctor.params))
	for i, param := range ctor.params {
		v, err := c.resolve(param, here)
		if err != nil {
			return nil, err
		}
		if v == nil {
			args[i] = reflect.Zero(param)
			continue
		}
		args[i] = reflect.ValueOf(v)
	}

	out := ctor.fn.Call(args)
	if ctor.returnsErr && !out[1].IsNil() {
		return nil, &ConstructionError{Type: d.typ, Err: out[1].Interface().(error)}
	}

	c.log.Debug("resolved",
		zap.String("contract", ContractKey(contract)),
		zap.String("implementation", ContractKey(d.typ)),
		zap.Int("dependencies", len(args)))
	return out[0].Interface(), nil
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve is the typed form of (*Container).Resolve. A contract with no
// registration returns the zero value of T and a nil error.
//
//	// Instead of: raw, err := c.Resolve(container.ContractOf[Interface]())
//	// Write:      obj, err := container.Resolve[Interface](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()
	instance, err := c.Resolve(t)
	if err != nil || instance == nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%s]: resolved to %T", t, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on an error or a missing
// registration. Use it in bootstrap code only.
func MustResolve[T any](c *Container) T {
	typed, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	if any(typed) == nil {
		panic(fmt.Sprintf("container: MustResolve[%s]: not registered", reflect.TypeOf((*T)(nil)).Elem()))
	}
	return typed
}
