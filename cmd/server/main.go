package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/canvasphere/print_orders/internal/auth"
	"github.com/canvasphere/print_orders/internal/config"
	"github.com/canvasphere/print_orders/internal/db"
	"github.com/canvasphere/print_orders/internal/httpserver"
	"github.com/canvasphere/print_orders/internal/logging"
	"github.com/canvasphere/print_orders/internal/middleware"
	"github.com/canvasphere/print_orders/internal/models"
	"github.com/canvasphere/print_orders/internal/repo"
	"github.com/canvasphere/print_orders/internal/service"
	"github.com/canvasphere/print_orders/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := gormDB.AutoMigrate(&models.Order{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	store := storage.NewClient(cfg.StorageURL, cfg.StorageServiceKey, cfg.ReceiptBucket)

	svc := &service.OrderService{
		Repo:  &repo.GormRepo{DB: gormDB},
		Store: store,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(cfg.MaxUploadSize))

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: svc},
		AdminHandler: &httpserver.AdminHTTP{
			Svc:   svc,
			Creds: auth.NewCredentialVerifier(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash),
		},
		AdminAuth: middleware.NewAdminAuth(auth.NewSecretVerifier(cfg.AdminSecret)),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
