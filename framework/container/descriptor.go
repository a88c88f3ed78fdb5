package container

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Descriptor is the registration manifest of a concrete implementation type:
// the type itself, the contracts it is declared to satisfy and its
// constructor candidates in declaration order.
//
//	d := container.Describe[*SmtpMailer]().
//	    Implements(container.ContractOf[Mailer]()).
//	    Constructor(NewSmtpMailer)        // func(Config, Logger) *SmtpMailer
//
// A descriptor without constructors is built from its zero value, which is
// the Go counterpart of a parameterless constructor.
type Descriptor struct {
	typ          reflect.Type
	contracts    []reflect.Type
	constructors []constructor
	err          error
}

// constructor is one candidate: a func returning typ, optionally with an error.
type constructor struct {
	fn         reflect.Value
	params     []reflect.Type
	returnsErr bool
}

// Describe starts a descriptor for the concrete type T.
func Describe[T any]() *Descriptor {
	return DescribeType(reflect.TypeOf((*T)(nil)).Elem())
}

// DescribeType starts a descriptor for t.
func DescribeType(t reflect.Type) *Descriptor {
	d := &Descriptor{typ: t}
	if t == nil || t.Kind() == reflect.Interface {
		d.err = fmt.Errorf("%w: %v", ErrInvalidImplementation, t)
	}
	return d
}

// Implements declares contracts the type satisfies. They are checked when the
// descriptor is registered.
func (d *Descriptor) Implements(contracts ...reflect.Type) *Descriptor {
	d.contracts = append(d.contracts, contracts...)
	return d
}

// Constructor appends a constructor candidate. fn must be a func returning
// the descriptor's type, or the type and an error. Invalid candidates are
// reported by RegisterType.
func (d *Descriptor) Constructor(fn any) *Descriptor {
	ctor, err := d.newConstructor(fn)
	if err != nil {
		d.err = errors.Join(d.err, err)
		return d
	}
	d.constructors = append(d.constructors, ctor)
	return d
}

// Type returns the implementation type.
func (d *Descriptor) Type() reflect.Type { return d.typ }

// Contracts returns the explicitly declared contracts.
func (d *Descriptor) Contracts() []reflect.Type {
	out := make([]reflect.Type, len(d.contracts))
	copy(out, d.contracts)
	return out
}

// clone copies d so the copy does not share slices with d.
func (d *Descriptor) clone() *Descriptor {
	out := *d
	out.contracts = append([]reflect.Type(nil), d.contracts...)
	out.constructors = append([]constructor(nil), d.constructors...)
	return &out
}

// Err returns every problem found while building the descriptor, joined.
func (d *Descriptor) Err() error { return d.err }

func (d *Descriptor) newConstructor(fn any) (constructor, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return constructor{}, fmt.Errorf("%w for %v: %T is not a func", ErrInvalidConstructor, d.typ, fn)
	}

	ft := v.Type()
	if ft.IsVariadic() {
		return constructor{}, fmt.Errorf("%w for %v: variadic %s", ErrInvalidConstructor, d.typ, ft)
	}

	switch {
	case ft.NumOut() == 1 && ft.Out(0) == d.typ:
	case ft.NumOut() == 2 && ft.Out(0) == d.typ && ft.Out(1) == errorType:
	default:
		return constructor{}, fmt.Errorf("%w for %v: %s must return %v or (%v, error)",
			ErrInvalidConstructor, d.typ, ft, d.typ, d.typ)
	}

	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}

	return constructor{fn: v, params: params, returnsErr: ft.NumOut() == 2}, nil
}

// injectable reports whether every parameter is an interface type.
func (ctor constructor) injectable() bool {
	for _, p := range ctor.params {
		if p.Kind() != reflect.Interface {
			return false
		}
	}
	return true
}

// selectConstructor returns the first constructor whose parameters are all
// contracts. The second result is false when constructors were declared but
// none qualifies; an empty descriptor falls back to zero-value construction.
func (d *Descriptor) selectConstructor() (*constructor, bool) {
	if len(d.constructors) == 0 {
		return nil, true
	}
	for i := range d.constructors {
		if d.constructors[i].injectable() {
			return &d.constructors[i], true
		}
	}
	return nil, false
}

// zero builds the parameterless value of the type.
func (d *Descriptor) zero() reflect.Value {
	if d.typ.Kind() == reflect.Ptr {
		return reflect.New(d.typ.Elem())
	}
	return reflect.New(d.typ).Elem()
}

// classLike reports whether the type is a struct or a pointer to one.
func (d *Descriptor) classLike() bool {
	t := d.typ
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// exported reports whether the (pointed-to) type name is exported.
func (d *Descriptor) exported() bool {
	t := d.typ
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return token.IsExported(t.Name())
}
