package container

import "reflect"

// Assembly is a named set of descriptors registered together, the Go
// counterpart of scanning a compiled module for its public types.
//
//	var Module = container.NewAssembly("billing",
//	    container.Describe[*InvoiceService]().Constructor(NewInvoiceService),
//	    container.Describe[*TaxCalculator](),
//	)
//	c.RegisterAssemblyTypes(Module)
type Assembly struct {
	name  string
	types []*Descriptor
}

// NewAssembly creates an assembly holding descriptors.
func NewAssembly(name string, descriptors ...*Descriptor) *Assembly {
	return &Assembly{name: name, types: descriptors}
}

// Add appends descriptors and returns the assembly for chaining.
func (a *Assembly) Add(descriptors ...*Descriptor) *Assembly {
	a.types = append(a.types, descriptors...)
	return a
}

// Name returns the assembly name.
func (a *Assembly) Name() string { return a.name }

// Types returns the implementation types of every descriptor.
func (a *Assembly) Types() []reflect.Type {
	out := make([]reflect.Type, 0, len(a.types))
	for _, d := range a.types {
		if d != nil {
			out = append(out, d.typ)
		}
	}
	return out
}

// eligible keeps exported, concrete struct (or pointer to struct) types.
// Descriptors with a broken constructor are kept so RegisterType reports them.
func (a *Assembly) eligible() []*Descriptor {
	out := make([]*Descriptor, 0, len(a.types))
	for _, d := range a.types {
		if d == nil || d.typ == nil || d.typ.Kind() == reflect.Interface {
			continue
		}
		if d.classLike() && d.exported() {
			out = append(out, d)
		}
	}
	return out
}
