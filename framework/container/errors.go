package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ── Sentinels ─────────────────────────────────────────────────────────────────

var (
	// ErrUnresolvedDependency is matched by *UnresolvedDependencyError.
	ErrUnresolvedDependency = errors.New("container: unresolved dependency")

	// ErrDuplicateContract is matched by *DuplicateContractError.
	ErrDuplicateContract = errors.New("container: duplicate contract registration")

	// ErrCyclicDependency is matched by *CyclicDependencyError.
	ErrCyclicDependency = errors.New("container: cyclic dependency")

	// ErrMaxDepthExceeded is returned when a resolution goes deeper than the
	// limit configured with WithMaxDepth.
	ErrMaxDepthExceeded = errors.New("container: maximum resolution depth exceeded")

	// ErrNoInjectableConstructor is returned when a descriptor declares
	// constructors but none of them takes only interface parameters.
	ErrNoInjectableConstructor = errors.New("container: no injectable constructor")

	ErrNotContract           = errors.New("container: contract must be an interface type")
	ErrNotImplemented        = errors.New("container: type does not implement contract")
	ErrInvalidConstructor    = errors.New("container: invalid constructor")
	ErrInvalidFactory        = errors.New("container: invalid factory")
	ErrInvalidImplementation = errors.New("container: implementation must be a concrete type")
	ErrNilInstance           = errors.New("container: nil instance")
)

// ── Typed errors ──────────────────────────────────────────────────────────────

// UnresolvedDependencyError is returned when a constructor parameter has no
// entry in either mapping. Path lists the contracts being built when the
// miss happened, outermost first.
type UnresolvedDependencyError struct {
	Contract reflect.Type
	Path     []reflect.Type
}

func (e *UnresolvedDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "container: unresolved dependency " + ContractKey(e.Contract)
	}
	return fmt.Sprintf("container: unresolved dependency %s (required by %s)",
		ContractKey(e.Contract), formatPath(e.Path))
}

func (e *UnresolvedDependencyError) Is(target error) bool {
	return target == ErrUnresolvedDependency
}

// DuplicateContractError is returned by RegisterInstance when the contract
// already holds an instance.
type DuplicateContractError struct {
	Contract reflect.Type
}

func (e *DuplicateContractError) Error() string {
	return "container: an instance is already registered for " + ContractKey(e.Contract)
}

func (e *DuplicateContractError) Is(target error) bool {
	return target == ErrDuplicateContract
}

// CyclicDependencyError is only produced when cycle detection is enabled.
// Path starts and ends with the same contract.
type CyclicDependencyError struct {
	Path []reflect.Type
}

func (e *CyclicDependencyError) Error() string {
	return "container: cyclic dependency " + formatPath(e.Path)
}

func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// ConstructionError wraps an error returned by a constructor.
type ConstructionError struct {
	Type reflect.Type
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("container: constructing %s: %v", e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func formatPath(path []reflect.Type) string {
	keys := make([]string, len(path))
	for i, t := range path {
		keys[i] = ContractKey(t)
	}
	return strings.Join(keys, " -> ")
}
