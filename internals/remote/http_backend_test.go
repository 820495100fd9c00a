package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type course struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestFetchDecodesEnvelope(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("department_id")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":[{"id":3,"title":"Algorithms"}]}`)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL+"/", "secret", time.Second)
	res, err := b.Fetch(context.Background(), KindCourses, Filter{"department_id": "1"})
	require.NoError(t, err)

	var out []course
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, []course{{ID: 3, Title: "Algorithms"}}, out)
	assert.Equal(t, "/api/courses", gotPath)
	assert.Equal(t, "1", gotQuery)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.False(t, res.IsEmpty())
}

func TestFetchEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":[]}`)
	}))
	defer srv.Close()

	res, err := NewHTTPBackend(srv.URL, "", time.Second).Fetch(context.Background(), KindCourses, nil)
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())

	var out []course
	require.NoError(t, res.Decode(&out))
	assert.Empty(t, out)
}

func TestSubmitSendsJSONAndMapsFailure(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"success":false,"message":"judul wajib diisi"}`)
	}))
	defer srv.Close()

	_, err := NewHTTPBackend(srv.URL, "", time.Second).
		Submit(context.Background(), KindAnnouncements, map[string]string{"title": ""})

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusUnprocessableEntity, rerr.Status)
	assert.Equal(t, "judul wajib diisi", rerr.Message)
	assert.Equal(t, KindAnnouncements, rerr.Kind)
	assert.JSONEq(t, `{"title":""}`, body)
}

func TestFetchHonoursContextCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := NewHTTPBackend(srv.URL, "", 5*time.Second).Fetch(ctx, KindMessages, nil)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestFetchNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	_, err := NewHTTPBackend(srv.URL, "", time.Second).Fetch(context.Background(), KindCourses, nil)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusBadGateway, rerr.Status)
}

func TestOfflineAlwaysFails(t *testing.T) {
	_, err := Offline{}.Fetch(context.Background(), KindCourses, nil)
	assert.ErrorIs(t, err, ErrOffline)
	_, err = Offline{}.Submit(context.Background(), KindCourses, nil)
	assert.ErrorIs(t, err, ErrOffline)
}
