// Package store persists accounts and appointments behind gorm and reports
// lookups as a Result that keeps "nothing there" apart from "lookup failed".
package store

import "errors"

var (
	ErrEmailTaken       = errors.New("email is already registered")
	ErrStaleAppointment = errors.New("appointment was changed by another request")
	ErrMissingPatient   = errors.New("appointment requires a patient")
)

type Kind int

const (
	KindEmpty Kind = iota
	KindFound
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindFailed:
		return "failed"
	}
	return "empty"
}

// Result is the outcome of a read. Exactly one of Found, Empty or Failed
// holds; Data is the zero value unless the result is Found.
type Result[T any] struct {
	kind Kind
	data T
	err  error
}

func Found[T any](data T) Result[T] {
	return Result[T]{kind: KindFound, data: data}
}

func Empty[T any]() Result[T] {
	return Result[T]{kind: KindEmpty}
}

func Failed[T any](err error) Result[T] {
	return Result[T]{kind: KindFailed, err: err}
}

func (r Result[T]) Kind() Kind { return r.kind }
func (r Result[T]) IsFound() bool { return r.kind == KindFound }
func (r Result[T]) IsEmpty() bool { return r.kind == KindEmpty }
func (r Result[T]) IsFailed() bool { return r.kind == KindFailed }
func (r Result[T]) Err() error { return r.err }
func (r Result[T]) Data() T { return r.data }
func (r Result[T]) Get() (T, bool) { return r.data, r.kind == KindFound }

// listResult reports an empty slice as Empty.
func listResult[T any](items []T, err error) Result[[]T] {
	if err != nil {
		return Failed[[]T](err)
	}
	if len(items) == 0 {
		return Empty[[]T]()
	}
	return Found(items)
}

// DataOrEmpty returns the found slice, or an empty (non-nil) slice otherwise.
func DataOrEmpty[T any](r Result[[]T]) []T {
	if items, ok := r.Get(); ok {
		return items
	}
	return []T{}
}
