package i11e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextAssignsDistinctIDs(t *testing.T) {
	a := NewContext()
	b := NewContext()
	defer a.Close()
	defer b.Close()

	assert.NotEqual(t, a.ID(), b.ID())
}

func TestRaiseSetsPendingWithoutHook(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	ctx.Raise()

	require.True(t, prepare(ctx, func() {}))
}

func TestRaiseInvokesInstalledHook(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	fired := false
	require.False(t, prepare(ctx, func() { fired = true }))

	ctx.Raise()

	assert.True(t, fired)
	assert.True(t, finish(ctx))
}

func TestCloseWithoutDebugAssertionsDoesNotPanicOnHookLeak(t *testing.T) {
	ctx := NewContext(WithDebugAssertions(false))
	prepare(ctx, func() {})

	assert.NotPanics(t, func() {
		_ = ctx.Close()
	})
}

func TestCloseWithDebugAssertionsPanicsOnHookLeak(t *testing.T) {
	ctx := NewContext()
	prepare(ctx, func() {})

	assert.Panics(t, func() {
		_ = ctx.Close()
	})

	finish(ctx)
	_ = ctx.Close()
}

func TestCloseWithDebugAssertionsPanicsWhileAttached(t *testing.T) {
	ctx := NewContext()
	prior := Attach(ctx)
	defer Detach(prior)

	assert.Panics(t, func() {
		_ = ctx.Close()
	})
}
