// Package remotetest: Backend palsu untuk test repository.
package remotetest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/bytedance/sonic"

	"lms_backend/internals/remote"
)

// Call satu panggilan yang tercatat.
type Call struct {
	Kind    remote.Kind
	Filter  remote.Filter
	Payload json.RawMessage
	Submit  bool
}

type (
	FetchFunc  func(ctx context.Context, filter remote.Filter) (any, error)
	SubmitFunc func(ctx context.Context, payload json.RawMessage) (any, error)
)

// Fake: tanpa handler, Fetch/Submit sukses dengan data kosong.
type Fake struct {
	mu     sync.Mutex
	fetch  map[remote.Kind]FetchFunc
	submit map[remote.Kind]SubmitFunc
	calls  []Call
}

func New() *Fake {
	return &Fake{
		fetch:  map[remote.Kind]FetchFunc{},
		submit: map[remote.Kind]SubmitFunc{},
	}
}

func (f *Fake) OnFetch(kind remote.Kind, fn FetchFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetch[kind] = fn
	return f
}

func (f *Fake) OnSubmit(kind remote.Kind, fn SubmitFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submit[kind] = fn
	return f
}

// Returns: handler Fetch yang selalu mengembalikan data.
func Returns(data any) FetchFunc {
	return func(context.Context, remote.Filter) (any, error) { return data, nil }
}

// Fails: handler Fetch yang selalu gagal.
func Fails(err error) FetchFunc {
	return func(context.Context, remote.Filter) (any, error) { return nil, err }
}

// Echo: handler Submit yang mengembalikan payload apa adanya.
func Echo(_ context.Context, payload json.RawMessage) (any, error) {
	return payload, nil
}

// AssignID: handler Submit yang meniru backend, payload dikembalikan
// dengan field "id" berurutan mulai dari start.
func AssignID(start uint64) SubmitFunc {
	var next atomic.Uint64
	next.Store(start)
	return func(_ context.Context, payload json.RawMessage) (any, error) {
		var row map[string]any
		if err := sonic.Unmarshal(payload, &row); err != nil {
			return nil, err
		}
		row["id"] = next.Add(1) - 1
		return row, nil
	}
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsFor menyaring panggilan per kind.
func (f *Fake) CallsFor(kind remote.Kind) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) Fetch(ctx context.Context, kind remote.Kind, filter remote.Filter) (*remote.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Kind: kind, Filter: filter})
	fn := f.fetch[kind]
	f.mu.Unlock()

	if fn == nil {
		return &remote.Result{Kind: kind}, nil
	}
	data, err := fn(ctx, filter)
	return result(kind, data, err)
}

func (f *Fake) Submit(ctx context.Context, kind remote.Kind, payload any) (*remote.Result, error) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return nil, &remote.Error{Kind: kind, Message: "payload tidak bisa di-encode", Err: err}
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Kind: kind, Payload: raw, Submit: true})
	fn := f.submit[kind]
	f.mu.Unlock()

	if fn == nil {
		return &remote.Result{Kind: kind}, nil
	}
	data, err := fn(ctx, raw)
	return result(kind, data, err)
}

func result(kind remote.Kind, data any, err error) (*remote.Result, error) {
	if err != nil {
		var re *remote.Error
		if errors.As(err, &re) {
			return nil, re
		}
		return nil, &remote.Error{Kind: kind, Err: err}
	}
	if data == nil {
		return &remote.Result{Kind: kind}, nil
	}
	if raw, ok := data.(json.RawMessage); ok {
		return &remote.Result{Kind: kind, Data: raw}, nil
	}
	raw, err := sonic.Marshal(data)
	if err != nil {
		return nil, &remote.Error{Kind: kind, Message: "data palsu tidak valid", Err: err}
	}
	return &remote.Result{Kind: kind, Data: raw}, nil
}
