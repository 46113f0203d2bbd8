//go:build unix

package i11e

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWaitsForReadabilityThenReads(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	ctx := NewContext()
	defer ctx.Close()

	buf := make([]byte, 8)
	resCh := make(chan struct {
		n   int
		err error
	}, 1)
	go func() {
		n, rerr := Read(ctx, int(r.Fd()), buf)
		resCh <- struct {
			n   int
			err error
		}{n, rerr}
	}()

	time.Sleep(10 * time.Millisecond)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)

	select {
	case res := <-resCh:
		require.NoError(t, res.err)
		assert.Equal(t, "hello", string(buf[:res.n]))
	case <-time.After(time.Second):
		t.Fatal("Read did not return")
	}
}

func TestReadRaiseAbortsBeforeSyscall(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	ctx := NewContext()
	defer ctx.Close()
	ctx.Raise()

	buf := make([]byte, 8)
	n, err := Read(ctx, int(r.Fd()), buf)

	assert.Equal(t, -1, n)
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestWriteWaitsForWritabilityThenWrites(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	ctx := NewContext()
	defer ctx.Close()

	n, err := Write(ctx, int(w.Fd()), []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	buf := make([]byte, 3)
	_, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf))
}

func TestWritevCombinesBuffers(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	ctx := NewContext()
	defer ctx.Close()

	iovs := [][]byte{[]byte("foo"), []byte("bar")}
	n, err := Writev(ctx, int(w.Fd()), iovs)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	buf := make([]byte, 6)
	_, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "foobar", string(buf))
}

func TestReadvScattersIntoBuffers(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	ctx := NewContext()
	defer ctx.Close()

	_, err = w.Write([]byte("foobar"))
	require.NoError(t, err)

	iovs := [][]byte{make([]byte, 3), make([]byte, 3)}
	n, err := Readv(ctx, int(r.Fd()), iovs)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "foo", string(iovs[0]))
	assert.Equal(t, "bar", string(iovs[1]))
}

func TestReadvRejectsEmptyIovs(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	n, err := Readv(ctx, -1, nil)
	assert.Equal(t, -1, n)
	assert.ErrorIs(t, err, &InvalidArgumentError{})
}

func TestWritevRejectsEmptyIovs(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	n, err := Writev(ctx, -1, [][]byte{})
	assert.Equal(t, -1, n)
	assert.ErrorIs(t, err, &InvalidArgumentError{})
}
