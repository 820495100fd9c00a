package middlewares

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"lms_backend/internals/configs"
	helper "lms_backend/internals/helpers"
)

// Batas default; RATE_LIMIT_GLOBAL & RATE_LIMIT_REMOTE (per menit per IP) menimpa.
const (
	defaultGlobalLimit = 300
	defaultRemoteLimit = 60
)

func envLimit(key string, def int) int {
	raw := configs.GetEnv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("[WARN] ⚠️ %s=%q tidak valid, pakai %d", key, raw, def)
		return def
	}
	return n
}

// newLimiter: fixed window per IP, 429 dijawab dengan format JsonError.
func newLimiter(cfg limiter.Config, message string) fiber.Handler {
	cfg.KeyGenerator = func(c *fiber.Ctx) string { return c.IP() }
	cfg.LimitReached = func(c *fiber.Ctx) error {
		return helper.JsonError(c, fiber.StatusTooManyRequests, message)
	}
	return limiter.New(cfg)
}

// GlobalRateLimiter: semua endpoint. Sebagian besar dilayani cache lokal jadi batasnya longgar.
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(limiter.Config{
		Max:        envLimit("RATE_LIMIT_GLOBAL", defaultGlobalLimit),
		Expiration: time.Minute,
	}, "❌ Terlalu banyak permintaan. Silakan coba lagi nanti.")
}

// RemoteRateLimiter: hanya request yang diteruskan ke backend remote,
// yaitu tulis (POST/PATCH) dan baca dengan ?refresh=true.
func RemoteRateLimiter() fiber.Handler {
	return newLimiter(limiter.Config{
		Next:       func(c *fiber.Ctx) bool { return !hitsRemote(c) },
		Max:        envLimit("RATE_LIMIT_REMOTE", defaultRemoteLimit),
		Expiration: time.Minute,
	}, "❌ Terlalu banyak permintaan ke server pusat. Tunggu sebentar ya.")
}

func hitsRemote(c *fiber.Ctx) bool {
	switch c.Method() {
	case fiber.MethodPost, fiber.MethodPatch, fiber.MethodPut:
		return true
	case fiber.MethodGet:
		return helper.WantsRefresh(c)
	}
	return false
}

// LoginRateLimiter: hanya login gagal yang dihitung.
func LoginRateLimiter() fiber.Handler {
	return newLimiter(limiter.Config{
		Max:                    5,
		Expiration:             15 * time.Minute,
		SkipSuccessfulRequests: true,
	}, "❌ Terlalu banyak percobaan login gagal. Coba lagi dalam 15 menit.")
}

func RegisterRateLimiter() fiber.Handler {
	return newLimiter(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
	}, "❌ Terlalu banyak percobaan pendaftaran. Tunggu beberapa menit ya.")
}

// ForgotPasswordRateLimiter: token reset dikirim lewat remote, jadi paling ketat.
func ForgotPasswordRateLimiter() fiber.Handler {
	return newLimiter(limiter.Config{
		Max:        3,
		Expiration: 15 * time.Minute,
	}, "❌ Terlalu banyak permintaan reset password. Silakan coba lagi dalam 15 menit.")
}
