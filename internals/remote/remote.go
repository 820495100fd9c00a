// Package remote: kolaborator backend jarak jauh. Cache hanya melihatnya
// sebagai sumber/tujuan data entitas; retry & backoff bukan urusan paket ini.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// Kind jenis resource di backend.
type Kind string

const (
	KindCourses       Kind = "courses"
	KindEnrollments   Kind = "enrollments"
	KindAnnouncements Kind = "announcements"
	KindAssignments   Kind = "assignments"
	KindChats         Kind = "chats"
	KindMessages      Kind = "messages"
	KindUsers         Kind = "users"
	KindPasswordReset Kind = "password-resets"
)

// Filter dikirim sebagai query string.
type Filter map[string]string

// Backend: fetch & submit, keduanya boleh dibatalkan lewat ctx.
type Backend interface {
	Fetch(ctx context.Context, kind Kind, filter Filter) (*Result, error)
	Submit(ctx context.Context, kind Kind, payload any) (*Result, error)
}

// Result payload mentah dari backend.
type Result struct {
	Kind    Kind
	Message string
	Data    json.RawMessage
}

// Decode payload ke v (sonic).
func (r *Result) Decode(v any) error {
	if r == nil || r.IsEmpty() {
		return nil
	}
	if err := sonic.Unmarshal(r.Data, v); err != nil {
		return &Error{Kind: r.Kind, Message: "payload tidak valid", Err: err}
	}
	return nil
}

// As: Decode generik; payload kosong menghasilkan zero value.
func As[T any](r *Result) (T, error) {
	var v T
	err := r.Decode(&v)
	return v, err
}

// IsEmpty: data absen, null, atau array kosong.
func (r *Result) IsEmpty() bool {
	if r == nil {
		return true
	}
	d := bytes.TrimSpace(r.Data)
	return len(d) == 0 || bytes.Equal(d, []byte("null")) || bytes.Equal(d, []byte("[]"))
}

// Error = RemoteError: kegagalan transport, status non-2xx, atau payload rusak.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("remote %s: status %d: %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("remote %s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrOffline: backend tidak dikonfigurasi.
var ErrOffline = errors.New("remote backend tidak dikonfigurasi")

// Offline dipakai bila REMOTE_BASE_URL kosong; semua panggilan gagal
// sehingga repository tetap melayani dari cache.
type Offline struct{}

func (Offline) Fetch(_ context.Context, kind Kind, _ Filter) (*Result, error) {
	return nil, &Error{Kind: kind, Err: ErrOffline}
}

func (Offline) Submit(_ context.Context, kind Kind, _ any) (*Result, error) {
	return nil, &Error{Kind: kind, Err: ErrOffline}
}
