package remote

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/multierr"
)

// envelope mengikuti format respons backend: {"success","message","data"}
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// HTTPBackend memakai HTTP client bawaan fiber (fasthttp agent).
type HTTPBackend struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func NewHTTPBackend(baseURL, token string, timeout time.Duration) *HTTPBackend {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPBackend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Timeout: timeout,
	}
}

func (b *HTTPBackend) endpoint(kind Kind, filter Filter) string {
	u := b.BaseURL + "/api/" + string(kind)
	if len(filter) == 0 {
		return u
	}
	q := url.Values{}
	for k, v := range filter {
		q.Set(k, v)
	}
	return u + "?" + q.Encode()
}

func (b *HTTPBackend) Fetch(ctx context.Context, kind Kind, filter Filter) (*Result, error) {
	agent := fiber.Get(b.endpoint(kind, filter))
	return b.do(ctx, kind, agent)
}

func (b *HTTPBackend) Submit(ctx context.Context, kind Kind, payload any) (*Result, error) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: kind, Message: "gagal encode payload", Err: err}
	}
	agent := fiber.Post(b.endpoint(kind, nil)).
		ContentType(fiber.MIMEApplicationJSON).
		Body(body)
	return b.do(ctx, kind, agent)
}

type reply struct {
	code int
	body []byte
	errs []error
}

// do menjalankan agent di goroutine supaya ctx bisa memutus penantian.
// Request yang ditinggalkan tetap dibatasi Timeout.
func (b *HTTPBackend) do(ctx context.Context, kind Kind, agent *fiber.Agent) (*Result, error) {
	agent.Timeout(b.Timeout).Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if b.Token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+b.Token)
	}
	if err := agent.Parse(); err != nil {
		return nil, &Error{Kind: kind, Message: "url tidak valid", Err: err}
	}

	ch := make(chan reply, 1)
	go func() {
		code, body, errs := agent.Bytes()
		ch <- reply{code: code, body: body, errs: errs}
	}()

	var r reply
	select {
	case <-ctx.Done():
		return nil, &Error{Kind: kind, Message: "dibatalkan", Err: ctx.Err()}
	case r = <-ch:
	}

	if len(r.errs) > 0 {
		err := multierr.Combine(r.errs...)
		log.Printf("[ERROR] remote %s: %v", kind, err)
		return nil, &Error{Kind: kind, Err: err}
	}

	var env envelope
	if len(r.body) > 0 {
		if err := sonic.Unmarshal(r.body, &env); err != nil {
			return nil, &Error{Kind: kind, Status: r.code, Message: "respons bukan JSON", Err: err}
		}
	}

	if r.code < 200 || r.code >= 300 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "permintaan ditolak backend"
		}
		return nil, &Error{Kind: kind, Status: r.code, Message: msg}
	}

	return &Result{Kind: kind, Message: env.Message, Data: env.Data}, nil
}
