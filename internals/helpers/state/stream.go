package state

import (
	"context"
	"sync"
)

// Stream: sinyal replace-on-latest untuk satu request. Hanya state terbaru
// yang bermakna; Updates tidak pernah menumpuk lebih dari satu nilai.
// Produsen menutup stream lewat Finish (atau Close).
type Stream[T any] struct {
	mu          sync.Mutex
	latest      State[T]
	history     []State[T]
	lastSuccess *T
	updates     chan State[T]
	done        chan struct{}
	closed      bool
}

func NewStream[T any]() *Stream[T] {
	return &Stream[T]{
		updates: make(chan State[T], 1),
		done:    make(chan struct{}),
	}
}

// Emit mengganti state terbaru. Emit setelah Close diabaikan.
func (s *Stream[T]) Emit(st State[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitLocked(st)
}

func (s *Stream[T]) emitLocked(st State[T]) {
	if s.closed || st == nil {
		return
	}
	s.latest = st
	s.history = append(s.history, st)
	if v, ok := st.(Success[T]); ok {
		data := v.Data
		s.lastSuccess = &data
	}

	// buang nilai lama yang belum dibaca, sisakan yang terbaru
	select {
	case <-s.updates:
	default:
	}
	s.updates <- st
}

// Finish: emit state terakhir lalu tutup stream.
func (s *Stream[T]) Finish(st State[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitLocked(st)
	s.closeLocked()
}

// Close idempotent.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Stream[T]) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	close(s.updates)
}

// Updates: channel kapasitas satu, ditutup setelah state terminal.
func (s *Stream[T]) Updates() <-chan State[T] { return s.updates }

// Done tertutup saat stream selesai.
func (s *Stream[T]) Done() <-chan struct{} { return s.done }

// Latest: state terbaru; false bila belum ada emit (idle).
func (s *Stream[T]) Latest() (State[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.latest != nil
}

// LastSuccess: data Success terakhir, tetap ada walau state terbaru Error.
func (s *Stream[T]) LastSuccess() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSuccess == nil {
		var zero T
		return zero, false
	}
	return *s.lastSuccess, true
}

// History untuk diagnosa & test; pemanggil biasa cukup pakai Latest.
func (s *Stream[T]) History() []State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]State[T], len(s.history))
	copy(out, s.history)
	return out
}

// Wait menunggu stream selesai atau ctx selesai.
func (s *Stream[T]) Wait(ctx context.Context) (State[T], error) {
	select {
	case <-s.done:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.latest, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
