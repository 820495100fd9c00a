package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"lms_backend/internals/configs"
	database "lms_backend/internals/databases"
	middlewares "lms_backend/internals/middlewares"
	"lms_backend/internals/remote"
	routes "lms_backend/internals/route"
	"lms_backend/internals/seeds"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("❌ Config tidak valid: %v", err)
	}

	// 🔌 cache lokal: migrate + seed katalog
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := database.Open(openCtx, cfg.Database, seeds.RunAllSeeds)
	cancelOpen()
	if err != nil {
		log.Fatalf("❌ Gagal membuka cache: %v", err)
	}

	var backend remote.Backend = remote.Offline{}
	if cfg.Remote.BaseURL != "" {
		backend = remote.NewHTTPBackend(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout)
		log.Printf("[INFO] 🌐 Remote backend: %s", cfg.Remote.BaseURL)
	} else {
		log.Println("⚠️ REMOTE_BASE_URL kosong, repository hanya melayani dari cache")
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.ConfigStd.Unmarshal, // string disalin dari body request
		DisableStartupMessage: true,
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app)

	// ✅ Routes
	routes.SetupRoutes(app, store, backend)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", cfg.Server.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Server.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup cache
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if err := database.CloseAll(); err != nil {
		log.Printf("[ERROR] Gagal menutup cache: %v", err)
	}
}
