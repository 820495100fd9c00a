package state

import "context"

// FetchOptions dipakai setiap operasi baca repository.
type FetchOptions struct {
	// Refresh memaksa panggilan remote walau cache sudah berisi.
	Refresh bool
}

// EmptySlice dan Nil: predikat IsEmpty yang umum.
func EmptySlice[E any](v []E) bool { return len(v) == 0 }

func Nil[E any](v *E) bool { return v == nil }

// Source: sisi cache dan remote dari satu operasi baca repository.
//
//   - Cache membaca cache lokal (wajib).
//   - IsEmpty menentukan Empty vs Success; nil berarti data tidak pernah kosong.
//   - Fetch memanggil remote; nil berarti operasi cache-only.
//   - Save menulis hasil Fetch ke cache (write-through).
type Source[T, R any] struct {
	Cache   func(ctx context.Context) (T, error)
	IsEmpty func(T) bool
	Fetch   func(ctx context.Context) (R, error)
	Save    func(ctx context.Context, fetched R) error
}

func (s Source[T, R]) empty(v T) bool {
	return s.IsEmpty != nil && s.IsEmpty(v)
}

// Load menjalankan kebijakan cache-first di goroutine sendiri dan
// mengembalikan stream yang selalu berakhir di state terminal.
//
// Remote dipanggil bila refresh diminta atau cache kosong. Saat itu urutannya
// Loading → (Success cache, bila ada) → Success/Empty/Error. Hasil remote
// yang datang setelah ctx dibatalkan dibuang; cache tidak disentuh.
func Load[T, R any](ctx context.Context, src Source[T, R], refresh bool) *Stream[T] {
	st := NewStream[T]()
	go func() {
		cached, err := src.Cache(ctx)
		if err != nil {
			st.Finish(Fail[T](err))
			return
		}
		hasCache := !src.empty(cached)
		if src.Fetch == nil || (hasCache && !refresh) {
			st.Finish(Of(cached, !hasCache))
			return
		}

		st.Emit(Loading[T]{})
		if hasCache {
			st.Emit(Success[T]{Data: cached})
		}

		fetched, err := src.Fetch(ctx)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			st.Finish(Fail[T](err))
			return
		}

		if src.Save != nil {
			if err := src.Save(ctx, fetched); err != nil {
				st.Finish(Fail[T](err))
				return
			}
		}

		fresh, err := src.Cache(ctx)
		if err != nil {
			st.Finish(Fail[T](err))
			return
		}
		st.Finish(Of(fresh, src.empty(fresh)))
	}()
	return st
}

// Submit: mutasi yang melibatkan remote. Selalu Loading dulu, lalu
// Success/Empty dari hasil do, atau Error.
func Submit[T any](ctx context.Context, do func(ctx context.Context) (T, error), isEmpty func(T) bool) *Stream[T] {
	st := NewStream[T]()
	st.Emit(Loading[T]{})
	go func() {
		v, err := do(ctx)
		if err != nil {
			st.Finish(Fail[T](err))
			return
		}
		st.Finish(Of(v, isEmpty != nil && isEmpty(v)))
	}()
	return st
}

// Local: operasi murni lokal dibungkus stream tanpa Loading.
func Local[T any](v T, err error, isEmpty func(T) bool) *Stream[T] {
	st := NewStream[T]()
	if err != nil {
		st.Finish(Fail[T](err))
		return st
	}
	st.Finish(Of(v, isEmpty != nil && isEmpty(v)))
	return st
}
