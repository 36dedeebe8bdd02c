package lazy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	created  int
	released []uint32
	next     uint32
}

func (c *counter) resource() *Resource[uint32] {
	return New(
		func() (uint32, error) {
			c.created++
			c.next++
			return c.next, nil
		},
		func(h uint32) {
			c.released = append(c.released, h)
		},
	)
}

func TestGetCreatesOnce(t *testing.T) {

	c := &counter{}
	r := c.resource()
	assert.False(t, r.Created())
	assert.Equal(t, 0, c.created)

	h1, err := r.Get()
	require.NoError(t, err)
	h2, err := r.Get()
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, c.created)
	assert.True(t, r.Created())
}

func TestReleaseRunsDeleterOnce(t *testing.T) {

	c := &counter{}
	r := c.resource()

	// Releasing before creation does nothing
	r.Release()
	assert.Empty(t, c.released)

	h, err := r.Get()
	require.NoError(t, err)

	r.Release()
	r.Release()
	assert.Equal(t, []uint32{h}, c.released)
	assert.False(t, r.Created())

	// The factory survives a release
	h2, err := r.Get()
	require.NoError(t, err)
	assert.NotEqual(t, h, h2)
}

func TestFactoryErrorIsNotRetried(t *testing.T) {

	calls := 0
	boom := errors.New("boom")
	r := New(func() (int, error) {
		calls++
		return 0, boom
	}, nil)

	_, err := r.Get()
	assert.ErrorIs(t, err, boom)
	_, err = r.Get()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.False(t, r.Created())
}

func TestTakeMovesOwnership(t *testing.T) {

	c := &counter{}
	src := c.resource()
	h, err := src.Get()
	require.NoError(t, err)

	dst := src.Take()
	assert.False(t, src.Created())
	assert.True(t, dst.Created())

	src.Release()
	assert.Empty(t, c.released)

	_, err = src.Get()
	assert.ErrorIs(t, err, ErrReleased)

	got, err := dst.Get()
	require.NoError(t, err)
	assert.Equal(t, h, got)

	dst.Release()
	assert.Equal(t, []uint32{h}, c.released)
}

func TestReset(t *testing.T) {

	c := &counter{}
	r := New(func() (uint32, error) { return 0, errors.New("bad") }, func(h uint32) { c.released = append(c.released, h) })
	_, err := r.Get()
	require.Error(t, err)

	r.Reset(func() (uint32, error) { return 7, nil })
	h, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), h)

	r.Reset(func() (uint32, error) { return 8, nil })
	assert.Equal(t, []uint32{7}, c.released)
	assert.False(t, r.Created())
}
