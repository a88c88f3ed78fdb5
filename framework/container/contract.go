package container

import (
	"fmt"
	"reflect"
)

// ContractOf returns the contract identifier of the interface type I.
//
//	container.ContractOf[UserRepository]()
//
// It panics when I is not an interface, which is always a programming error.
func ContractOf[I any]() reflect.Type {
	t := reflect.TypeOf((*I)(nil)).Elem()
	if t.Kind() != reflect.Interface {
		panic(fmt.Sprintf("container: ContractOf[%s]: not an interface", t))
	}
	return t
}

// IsContract reports whether t can be used as a contract.
func IsContract(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// ContractKey returns the package-qualified name of t, used as the stable
// textual key of a contract in logs and diagnostics.
//
//	container.ContractKey(container.ContractOf[UserRepository]())  // "example.com/app.UserRepository"
func ContractKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Ptr {
		return "*" + ContractKey(t.Elem())
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// DeclareContract adds contracts to the catalog used to infer which
// contracts a registered type or instance satisfies. Declaring a contract
// does not affect registrations made before the call.
func (c *Container) DeclareContract(contracts ...reflect.Type) error {
	for _, contract := range contracts {
		if !IsContract(contract) {
			return fmt.Errorf("%w: %v", ErrNotContract, contract)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, contract := range contracts {
		c.catalog[contract] = struct{}{}
	}
	return nil
}

// Declare is the generic form of DeclareContract.
//
//	container.Declare[Interface](c)
func Declare[I any](c *Container) {
	// ContractOf already guarantees an interface.
	_ = c.DeclareContract(ContractOf[I]())
}

// satisfiedContracts returns explicit followed by every catalog contract t
// implements, without duplicates. Explicit contracts are recorded in the
// catalog. Must hold mu.Lock.
func (c *Container) satisfiedContracts(t reflect.Type, explicit []reflect.Type) ([]reflect.Type, error) {
	if err := checkContracts(t, explicit); err != nil {
		return nil, err
	}

	seen := make(map[reflect.Type]struct{}, len(explicit))
	out := make([]reflect.Type, 0, len(explicit))

	for _, contract := range explicit {
		if _, dup := seen[contract]; dup {
			continue
		}
		seen[contract] = struct{}{}
		out = append(out, contract)
	}

	for contract := range c.catalog {
		if _, dup := seen[contract]; dup {
			continue
		}
		if t.Implements(contract) {
			seen[contract] = struct{}{}
			out = append(out, contract)
		}
	}

	for _, contract := range out {
		c.catalog[contract] = struct{}{}
	}
	return out, nil
}

// checkContracts reports the first explicit contract that is not an
// interface or that t does not implement.
func checkContracts(t reflect.Type, explicit []reflect.Type) error {
	for _, contract := range explicit {
		if !IsContract(contract) {
			return fmt.Errorf("%w: %v", ErrNotContract, contract)
		}
		if !t.Implements(contract) {
			return fmt.Errorf("%w: %s does not implement %s", ErrNotImplemented, t, ContractKey(contract))
		}
	}
	return nil
}
