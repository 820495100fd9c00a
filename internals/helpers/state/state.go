// Package state: kontrak empat keadaan (Loading, Success, Error, Empty) yang
// dipakai setiap repository terhadap pemanggilnya.
package state

import "fmt"

// State tertutup: hanya varian di paket ini yang memenuhi interface.
type State[T any] interface {
	isState()
	// Terminal true untuk Success, Error, dan Empty.
	Terminal() bool
	Name() string
}

type Loading[T any] struct{}

type Success[T any] struct {
	Data T
}

type Error[T any] struct {
	Err     error
	Message string
}

type Empty[T any] struct{}

func (Loading[T]) isState() {}
func (Success[T]) isState() {}
func (Error[T]) isState()   {}
func (Empty[T]) isState()   {}

func (Loading[T]) Terminal() bool { return false }
func (Success[T]) Terminal() bool { return true }
func (Error[T]) Terminal() bool   { return true }
func (Empty[T]) Terminal() bool   { return true }

func (Loading[T]) Name() string { return "loading" }
func (Success[T]) Name() string { return "success" }
func (Error[T]) Name() string   { return "error" }
func (Empty[T]) Name() string   { return "empty" }

func (e Error[T]) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e Error[T]) Unwrap() error { return e.Err }

// Fail membangun Error dengan pesan dari err.
func Fail[T any](err error) Error[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Error[T]{Err: err, Message: msg}
}

// Of: Success bila data tidak kosong, Empty bila kosong.
func Of[T any](data T, empty bool) State[T] {
	if empty {
		return Empty[T]{}
	}
	return Success[T]{Data: data}
}

// OfSlice: Empty untuk slice nil/len 0.
func OfSlice[E any](data []E) State[[]E] {
	return Of(data, len(data) == 0)
}

// Match: keempat cabang wajib diberikan sebagai argumen.
func Match[T, R any](
	s State[T],
	onLoading func() R,
	onSuccess func(data T) R,
	onError func(err error, message string) R,
	onEmpty func() R,
) R {
	switch v := s.(type) {
	case Loading[T]:
		return onLoading()
	case Success[T]:
		return onSuccess(v.Data)
	case Error[T]:
		return onError(v.Err, v.Message)
	case Empty[T]:
		return onEmpty()
	default:
		panic(fmt.Sprintf("state.Match: varian tidak dikenal %T", s))
	}
}
