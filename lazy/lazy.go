// Package lazy holds device handles that are only created the first time they are used.
//
// A Resource is in one of two states: uncreated, holding the factory that will make the
// handle, or created, holding the handle. Get performs the only transition between them.
package lazy

import "errors"

var ErrReleased = errors.New("lazy resource has been moved or released without a factory")

// noCopy makes 'go vet' report copies of a Resource. Copying would let two owners release one handle.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type Resource[T any] struct {
	_ noCopy

	factory func() (T, error)
	release func(T)

	handle  T
	created bool

	// err is set when the factory failed. Creation is not retried.
	err error
}

// New returns an uncreated resource. release may be nil if the handle needs no cleanup.
func New[T any](factory func() (T, error), release func(T)) *Resource[T] {
	return &Resource[T]{
		factory: factory,
		release: release,
	}
}

// Get returns the handle, creating it on the first call
func (r *Resource[T]) Get() (T, error) {

	if r.created {
		return r.handle, nil
	}

	if r.err != nil {
		var zero T
		return zero, r.err
	}

	if r.factory == nil {
		var zero T
		return zero, ErrReleased
	}

	h, err := r.factory()
	if err != nil {
		r.err = err
		var zero T
		return zero, err
	}

	r.handle = h
	r.created = true
	return h, nil
}

func (r *Resource[T]) Created() bool {
	return r.created
}

// Release runs the release function if the handle was created and returns the resource
// to the uncreated state. The factory is kept, so a later Get creates a new handle.
func (r *Resource[T]) Release() {

	if !r.created {
		return
	}

	h := r.handle

	var zero T
	r.handle = zero
	r.created = false

	if r.release != nil {
		r.release(h)
	}
}

// Reset releases the handle and replaces the factory, clearing any creation error
func (r *Resource[T]) Reset(factory func() (T, error)) {
	r.Release()
	r.factory = factory
	r.err = nil
}

// Take moves ownership to a new Resource. The receiver is left uncreated and without
// a factory, so releasing it afterwards does nothing.
func (r *Resource[T]) Take() *Resource[T] {

	moved := &Resource[T]{
		factory: r.factory,
		release: r.release,
		handle:  r.handle,
		created: r.created,
		err:     r.err,
	}

	var zero T
	r.factory = nil
	r.handle = zero
	r.created = false
	r.err = nil

	return moved
}
