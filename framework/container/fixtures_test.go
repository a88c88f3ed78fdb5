package container_test

import (
	"errors"
	"reflect"

	"github.com/km-arc/go-ioc/framework/container"
)

// ── contracts ─────────────────────────────────────────────────────────────────

type Interface interface{ DoWork() string }

type Clock interface{ Now() int }

type Greeter interface{ Greet() string }

type Missing interface{ Missing() }

type Ping interface{ Ping() string }

type Pong interface{ Pong() string }

// ── implementations ───────────────────────────────────────────────────────────
// Every type carries a field: pointers to zero-size values may share an
// address, which would defeat the identity assertions below.

type Concrete struct{ calls int }

func (c *Concrete) DoWork() string { c.calls++; return "WORK" }

type Other struct{ calls int }

func (o *Other) DoWork() string { o.calls++; return "OTHER" }

type FixedClock struct{ at int }

func (f *FixedClock) Now() int { return f.at }

func NewFixedClock() *FixedClock { return &FixedClock{at: 42} }

type ClockGreeter struct{ Clock Clock }

func (g *ClockGreeter) Greet() string { return "hello" }

func NewClockGreeter(c Clock) *ClockGreeter { return &ClockGreeter{Clock: c} }

type MissingGreeter struct{ dep Missing }

func (g *MissingGreeter) Greet() string { return "never" }

func NewMissingGreeter(m Missing) *MissingGreeter { return &MissingGreeter{dep: m} }

// Pinger and Ponger depend on each other.
type Pinger struct{ pong Pong }

func (p *Pinger) Ping() string { return "ping" }

func NewPinger(p Pong) *Pinger { return &Pinger{pong: p} }

type Ponger struct{ ping Ping }

func (p *Ponger) Pong() string { return "pong" }

func NewPonger(p Ping) *Ponger { return &Ponger{ping: p} }

// MultiGreeter has several constructor candidates.
type MultiGreeter struct {
	via   string
	clock Clock
}

func (g *MultiGreeter) Greet() string { return g.via }

func NewMultiGreeterFromName(name string) *MultiGreeter { return &MultiGreeter{via: "name:" + name} }

func NewMultiGreeterFromClock(c Clock) *MultiGreeter { return &MultiGreeter{via: "clock", clock: c} }

func NewMultiGreeterDefault() *MultiGreeter { return &MultiGreeter{via: "default"} }

var errBroken = errors.New("broken constructor")

type BrokenGreeter struct{ ok bool }

func (g *BrokenGreeter) Greet() string { return "broken" }

func NewBrokenGreeter() (*BrokenGreeter, error) { return nil, errBroken }

// ── helpers ───────────────────────────────────────────────────────────────────

var (
	interfaceContract = container.ContractOf[Interface]()
	clockContract     = container.ContractOf[Clock]()
	greeterContract   = container.ContractOf[Greeter]()
	missingContract   = container.ContractOf[Missing]()
	pingContract      = container.ContractOf[Ping]()
	pongContract      = container.ContractOf[Pong]()
)

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// registerCycle registers Pinger and Ponger, which need each other.
func registerCycle(c *container.Container) error {
	if err := c.RegisterType(container.Describe[*Pinger]().Implements(pingContract).Constructor(NewPinger)); err != nil {
		return err
	}
	return c.RegisterType(container.Describe[*Ponger]().Implements(pongContract).Constructor(NewPonger))
}
