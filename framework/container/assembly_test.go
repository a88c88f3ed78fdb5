package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-ioc/framework/container"
)

type hiddenClock struct{ at int }

func (h *hiddenClock) Now() int { return h.at }

type CounterClock int

func (c CounterClock) Now() int { return int(c) }

func TestRegisterAssemblyTypes_RegistersEligibleTypes(t *testing.T) {
	t.Parallel()

	c := container.New()
	container.Declare[Interface](c)
	container.Declare[Greeter](c)
	container.Declare[Clock](c)

	asm := container.NewAssembly("fixtures",
		container.Describe[*Concrete](),
		container.Describe[*ClockGreeter]().Constructor(NewClockGreeter),
		container.Describe[*FixedClock]().Constructor(NewFixedClock),
	)
	require.NoError(t, c.RegisterAssemblyTypes(asm))

	assert.True(t, c.Has(interfaceContract))
	assert.True(t, c.Has(greeterContract))

	g, err := container.Resolve[Greeter](c)
	require.NoError(t, err)
	assert.Equal(t, 42, g.(*ClockGreeter).Clock.Now())
}

func TestRegisterAssemblyTypes_SkipsIneligibleTypes(t *testing.T) {
	t.Parallel()

	c := container.New()
	container.Declare[Clock](c)

	// unexported, not class-like, abstract, missing
	asm := container.NewAssembly("mixed").
		Add(container.Describe[*hiddenClock]()).
		Add(container.Describe[CounterClock]()).
		Add(container.DescribeType(clockContract)).
		Add(nil)
	require.NoError(t, c.RegisterAssemblyTypes(asm))

	assert.False(t, c.Has(clockContract))
	assert.Empty(t, c.Bindings())
}

func TestRegisterAssemblyTypes_ReportsBrokenDescriptor(t *testing.T) {
	t.Parallel()

	c := container.New()
	asm := container.NewAssembly("broken", container.Describe[*Concrete]().Constructor(NewFixedClock))

	err := c.RegisterAssemblyTypes(asm)
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrInvalidConstructor)
	assert.Contains(t, err.Error(), "assembly broken")
}

func TestRegisterAssemblyTypes_InvalidDescriptorRegistersNothing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		bad  *container.Descriptor
		want error
	}{
		{"broken constructor", container.Describe[*Other]().Constructor(NewFixedClock), container.ErrInvalidConstructor},
		{"contract not implemented", container.Describe[*Other]().Implements(clockContract), container.ErrNotImplemented},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := container.New()
			asm := container.NewAssembly("partial",
				container.Describe[*Concrete]().Implements(interfaceContract),
				tc.bad,
			)

			err := c.RegisterAssemblyTypes(asm)
			require.ErrorIs(t, err, tc.want)
			assert.False(t, c.Has(interfaceContract), "earlier descriptors must not be registered")
			assert.Empty(t, c.Bindings())
		})
	}
}

func TestRegisterAssemblyTypes_NilAssembly(t *testing.T) {
	t.Parallel()

	assert.NoError(t, container.New().RegisterAssemblyTypes(nil))
}

func TestAssembly_Accessors(t *testing.T) {
	t.Parallel()

	asm := container.NewAssembly("fixtures", container.Describe[*Concrete](), nil)
	asm.Add(container.Describe[*FixedClock]())

	assert.Equal(t, "fixtures", asm.Name())
	assert.Equal(t, []any{typeOf[*Concrete](), typeOf[*FixedClock]()}, toAny(asm.Types()))
}
