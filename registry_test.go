package i11e

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachDetachRoundTrip(t *testing.T) {
	before := registrySnapshot()

	ctx := NewContext()
	defer ctx.Close()

	prior := Attach(ctx)
	assert.Nil(t, prior)
	assert.Equal(t, before+1, registrySnapshot())

	assert.Same(t, ctx, attachedContext())

	Detach(prior)
	assert.Equal(t, before, registrySnapshot())
	assert.Nil(t, attachedContext())
}

func TestAttachReturnsPreviouslyAttachedContext(t *testing.T) {
	a := NewContext()
	b := NewContext()
	defer a.Close()
	defer b.Close()

	priorA := Attach(a)
	require.Nil(t, priorA)

	priorB := Attach(b)
	assert.Same(t, a, priorB)
	assert.Same(t, b, attachedContext())

	Detach(priorB)
	assert.Same(t, a, attachedContext())

	Detach(priorA)
	assert.Nil(t, attachedContext())
}

func TestAttachIsPerGoroutine(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	prior := Attach(ctx)
	defer Detach(prior)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.Nil(t, attachedContext())
	}()
	wg.Wait()
}

func TestAttachWithDebugAssertionsPanicsOnDoubleAttach(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	prior := Attach(ctx)
	defer Detach(prior)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.Panics(t, func() {
			Attach(ctx)
		})
	}()
	<-done
}

func TestResolveContextPrefersExplicitWhenNothingAttached(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	assert.Same(t, ctx, resolveContext(ctx))
}

func TestResolveContextFallsBackToAttached(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	prior := Attach(ctx)
	defer Detach(prior)

	assert.Same(t, ctx, resolveContext(nil))
}

func TestResolveContextPanicsOnMismatch(t *testing.T) {
	a := NewContext()
	b := NewContext()
	defer a.Close()
	defer b.Close()

	prior := Attach(a)
	defer Detach(prior)

	assert.Panics(t, func() {
		resolveContext(b)
	})
}
