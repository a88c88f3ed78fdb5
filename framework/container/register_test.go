package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-ioc/framework/container"
)

// ── RegisterType ──────────────────────────────────────────────────────────────

func TestRegisterType_MapsDeclaredContract(t *testing.T) {
	t.Parallel()

	c := container.New()
	err := c.RegisterType(container.Describe[*Concrete]().Implements(interfaceContract))
	require.NoError(t, err)

	assert.True(t, c.Has(interfaceContract))
	assert.False(t, c.Has(clockContract))
}

func TestRegisterType_InfersCatalogContracts(t *testing.T) {
	t.Parallel()

	c := container.New()
	container.Declare[Interface](c)
	container.Declare[Clock](c)

	require.NoError(t, c.RegisterType(container.Describe[*Concrete]()))

	assert.True(t, c.Has(interfaceContract))
	assert.False(t, c.Has(clockContract), "Concrete does not implement Clock")
}

func TestRegisterType_NoContractsIsNoOp(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.RegisterType(container.Describe[*Concrete]()))

	assert.Empty(t, c.Bindings())
}

func TestRegisterType_LastRegistrationWins(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.RegisterType(container.Describe[*Concrete]().Implements(interfaceContract)))
	require.NoError(t, c.RegisterType(container.Describe[*Other]().Implements(interfaceContract)))

	for i := 0; i < 3; i++ {
		got, err := container.Resolve[Interface](c)
		require.NoError(t, err)
		assert.IsType(t, &Other{}, got)
	}
}

func TestRegisterType_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		desc   *container.Descriptor
		wantIs error
	}{
		{
			name:   "nil descriptor",
			desc:   nil,
			wantIs: container.ErrInvalidImplementation,
		},
		{
			name:   "interface as implementation",
			desc:   container.DescribeType(interfaceContract),
			wantIs: container.ErrInvalidImplementation,
		},
		{
			name:   "contract not an interface",
			desc:   container.Describe[*Concrete]().Implements(typeOf[*Other]()),
			wantIs: container.ErrNotContract,
		},
		{
			name:   "contract not implemented",
			desc:   container.Describe[*Concrete]().Implements(clockContract),
			wantIs: container.ErrNotImplemented,
		},
		{
			name:   "constructor is not a func",
			desc:   container.Describe[*Concrete]().Implements(interfaceContract).Constructor("nope"),
			wantIs: container.ErrInvalidConstructor,
		},
		{
			name:   "constructor returns another type",
			desc:   container.Describe[*Concrete]().Implements(interfaceContract).Constructor(NewFixedClock),
			wantIs: container.ErrInvalidConstructor,
		},
		{
			name: "constructor second result is not an error",
			desc: container.Describe[*Concrete]().Implements(interfaceContract).
				Constructor(func() (*Concrete, int) { return nil, 0 }),
			wantIs: container.ErrInvalidConstructor,
		},
		{
			name: "variadic constructor",
			desc: container.Describe[*Concrete]().Implements(interfaceContract).
				Constructor(func(...Clock) *Concrete { return &Concrete{} }),
			wantIs: container.ErrInvalidConstructor,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := container.New()
			err := c.RegisterType(tc.desc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantIs)
			assert.Empty(t, c.Bindings(), "failed registration must not leave entries")
		})
	}
}

func TestRegisterType_LaterDescriptorChangesDoNotLeak(t *testing.T) {
	t.Parallel()

	c := container.New()
	d := container.Describe[*Concrete]().Implements(interfaceContract)
	require.NoError(t, c.RegisterType(d))

	d.Constructor(func(Missing) *Concrete { return &Concrete{} })
	d.Implements(clockContract)

	got, err := container.Resolve[Interface](c)
	require.NoError(t, err)
	assert.IsType(t, &Concrete{}, got)
	assert.False(t, c.Has(clockContract))
	assert.Zero(t, c.Bindings()[0].Constructors)
}

// ── RegisterInstance ──────────────────────────────────────────────────────────

func TestRegisterInstance_ReturnsSameValue(t *testing.T) {
	t.Parallel()

	c := container.New()
	clock := &FixedClock{at: 7}
	require.NoError(t, c.RegisterInstance(clock, clockContract))

	first, err := container.Resolve[Clock](c)
	require.NoError(t, err)
	second, err := container.Resolve[Clock](c)
	require.NoError(t, err)

	assert.Same(t, clock, first)
	assert.Same(t, clock, second)
}

func TestRegisterInstance_DuplicateFailsAndKeepsFirst(t *testing.T) {
	t.Parallel()

	c := container.New()
	first := &FixedClock{at: 1}
	second := &FixedClock{at: 2}

	require.NoError(t, c.RegisterInstance(first, clockContract))
	err := c.RegisterInstance(second, clockContract)
	require.Error(t, err)

	assert.ErrorIs(t, err, container.ErrDuplicateContract)
	var dup *container.DuplicateContractError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, clockContract, dup.Contract)

	got, err := container.Resolve[Clock](c)
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestRegisterInstance_DuplicateIsAtomic(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.RegisterInstance(&FixedClock{at: 1}, clockContract))

	// ClockGreeter satisfies Greeter (free) and Clock would be taken: nothing
	// may be registered.
	both := &struct {
		*FixedClock
		*ClockGreeter
	}{&FixedClock{at: 2}, &ClockGreeter{}}
	err := c.RegisterInstance(both, greeterContract, clockContract)
	require.ErrorIs(t, err, container.ErrDuplicateContract)

	assert.False(t, c.Has(greeterContract))
}

func TestRegisterInstance_OverwritePolicy(t *testing.T) {
	t.Parallel()

	c := container.New(container.WithInstancePolicy(container.InstanceOverwrite))
	first := &FixedClock{at: 1}
	second := &FixedClock{at: 2}

	require.NoError(t, c.RegisterInstance(first, clockContract))
	require.NoError(t, c.RegisterInstance(second, clockContract))

	got, err := container.Resolve[Clock](c)
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestRegisterInstance_InfersCatalogContracts(t *testing.T) {
	t.Parallel()

	c := container.New()
	container.Declare[Clock](c)
	container.Declare[Greeter](c)

	clock := &FixedClock{at: 3}
	require.NoError(t, c.RegisterInstance(clock))

	assert.True(t, c.Has(clockContract))
	assert.False(t, c.Has(greeterContract))
}

func TestRegisterInstance_Errors(t *testing.T) {
	t.Parallel()

	c := container.New()

	assert.ErrorIs(t, c.RegisterInstance(nil, clockContract), container.ErrNilInstance)
	assert.ErrorIs(t, c.RegisterInstance(&FixedClock{}, greeterContract), container.ErrNotImplemented)
	assert.ErrorIs(t, c.RegisterInstance(&FixedClock{}, typeOf[FixedClock]()), container.ErrNotContract)
}

func TestInstancePolicy_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "strict", container.InstanceStrict.String())
	assert.Equal(t, "overwrite", container.InstanceOverwrite.String())
}

// ── RegisterFactory ───────────────────────────────────────────────────────────

func TestRegisterFactory_CallsProducerOnceAndDiscardsSample(t *testing.T) {
	t.Parallel()

	c := container.New()
	container.Declare[Interface](c)

	var calls int
	var sample *Concrete
	err := c.RegisterFactory(func() *Concrete {
		calls++
		sample = &Concrete{calls: 99}
		return sample
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	got, err := container.Resolve[Interface](c)
	require.NoError(t, err)
	require.IsType(t, &Concrete{}, got)
	assert.NotSame(t, sample, got)
	assert.Equal(t, 0, got.(*Concrete).calls, "a fresh zero value is built")
	assert.Equal(t, 1, calls, "producer is not called on resolve")
}

func TestRegisterFactory_ReusesKnownDescriptor(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, c.RegisterInstance(&FixedClock{at: 5}, clockContract))
	require.NoError(t, c.RegisterType(container.Describe[*ClockGreeter]().
		Implements(greeterContract).
		Constructor(NewClockGreeter)))

	require.NoError(t, c.RegisterFactory(func() (*ClockGreeter, error) { return &ClockGreeter{}, nil }))

	got, err := container.Resolve[Greeter](c)
	require.NoError(t, err)
	require.IsType(t, &ClockGreeter{}, got)
	assert.NotNil(t, got.(*ClockGreeter).Clock, "constructor of the known descriptor was used")
}

func TestRegisterFactory_Errors(t *testing.T) {
	t.Parallel()

	producerErr := errors.New("boom")

	cases := []struct {
		name     string
		producer any
		wantIs   error
	}{
		{"not a func", 42, container.ErrInvalidFactory},
		{"nil func", (func() *Concrete)(nil), container.ErrInvalidFactory},
		{"takes arguments", func(int) *Concrete { return nil }, container.ErrInvalidFactory},
		{"no results", func() {}, container.ErrInvalidFactory},
		{"second result not error", func() (*Concrete, bool) { return nil, true }, container.ErrInvalidFactory},
		{"producer error", func() (*Concrete, error) { return nil, producerErr }, producerErr},
		{"nil interface result", func() Interface { return nil }, container.ErrNilInstance},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := container.New()
			err := c.RegisterFactory(tc.producer)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantIs)
		})
	}
}

// ── DeclareContract ───────────────────────────────────────────────────────────

func TestDeclareContract_RejectsConcreteTypes(t *testing.T) {
	t.Parallel()

	c := container.New()
	err := c.DeclareContract(clockContract, typeOf[*FixedClock]())
	assert.ErrorIs(t, err, container.ErrNotContract)
}

func TestContractOf_PanicsOnConcreteType(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { container.ContractOf[*FixedClock]() })
}

func TestContractKey(t *testing.T) {
	t.Parallel()

	const pkg = "github.com/km-arc/go-ioc/framework/container_test"

	assert.Equal(t, pkg+".Interface", container.ContractKey(interfaceContract))
	assert.Equal(t, "*"+pkg+".Concrete", container.ContractKey(typeOf[*Concrete]()))
	assert.Equal(t, "error", container.ContractKey(typeOf[error]()))
	assert.Equal(t, "<nil>", container.ContractKey(nil))
}

// ── Logging ───────────────────────────────────────────────────────────────────

func TestRegister_LogsDuplicateAtWarn(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	c := container.New(container.WithLogger(zap.New(core)))

	require.NoError(t, c.RegisterInstance(&FixedClock{}, clockContract))
	require.Error(t, c.RegisterInstance(&FixedClock{}, clockContract))

	assert.Equal(t, 1, logs.FilterMessage("registered instance").Len())
	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.Equal(t, "duplicate instance registration", warns[0].Message)
	assert.Equal(t, "container", warns[0].LoggerName)
}
