package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filehost/filehost/internal/config"
	"github.com/filehost/filehost/internal/handlers"
	"github.com/filehost/filehost/internal/mail"
	"github.com/filehost/filehost/internal/middleware"
	"github.com/filehost/filehost/internal/services"
	"github.com/filehost/filehost/internal/storage"
	"github.com/filehost/filehost/internal/store"
	"github.com/filehost/filehost/pkg/logger"
	"github.com/filehost/filehost/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if err := run(config.Load(), quit); err != nil {
		log.Fatal(err)
	}
}

// run serves until quit fires or the listener fails. The store and the mail
// queue are closed before it returns in both cases.
func run(cfg *config.Config, quit <-chan os.Signal) error {
	repo, err := store.Open(cfg.Store, cfg.DB)
	if err != nil {
		return fmt.Errorf("store initialization failed: %w", err)
	}
	if closer, ok := repo.(io.Closer); ok {
		defer closer.Close()
	}

	blobs, err := storage.Open(context.Background(), cfg.Blob, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("blob storage initialization failed: %w", err)
	}

	mailer, err := mail.New(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("mailer initialization failed: %w", err)
	}
	notifier := services.NewMailNotifier(mailer, cfg.Server.PublicURL, cfg.Reset.QueueSize)
	defer notifier.Close()

	passwords := utils.PasswordPolicy{Hash: cfg.Auth.HashPasswords}
	if !passwords.Hash {
		logger.Warn("plaintext_passwords_enabled", map[string]interface{}{
			"hint": "set PASSWORD_HASHING=true to store bcrypt hashes",
		})
	}
	userStore := services.NewUserStoreService(repo, blobs, notifier, passwords, cfg.Reset.TokenTTL)

	pagesHandler := handlers.NewPagesHandler(cfg.Server.PublicDir)
	authHandler := handlers.NewAuthHandler(userStore)
	filesHandler := handlers.NewFilesHandler(userStore, blobs, pagesHandler)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		UnescapePath: true,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.CORSOrigins))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	handlers.RegisterRoutes(app, authHandler, filesHandler, pagesHandler)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":          cfg.Server.Port,
		"address":       listenAddr,
		"public_url":    cfg.Server.PublicURL,
		"store_backend": cfg.Store.Backend,
		"blob_backend":  cfg.Blob.Backend,
		"body_limit":    fmt.Sprintf("%dMB", cfg.Server.BodyLimitMB),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
