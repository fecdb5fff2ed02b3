package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/peterthehammer1/FongoAI/internal/calllog"
	"github.com/peterthehammer1/FongoAI/internal/config"
	"github.com/peterthehammer1/FongoAI/internal/dialogue"
	"github.com/peterthehammer1/FongoAI/internal/handler"
	"github.com/peterthehammer1/FongoAI/internal/payment"
	"github.com/peterthehammer1/FongoAI/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.Payment.URL == "" {
		log.Println("warning: PAYMENT_API_URL not set; submissions will fail until it is configured")
	}

	store := session.NewStore()
	recorder := calllog.NewMemoryRecorder()
	payClient := payment.NewClient(cfg.Payment, cfg.Dialogue.CompanyName, cfg.Dialogue.SupportNumber)
	engine := dialogue.NewEngine(store, payClient, cfg.Dialogue)

	router := handler.NewRouter(engine, store, recorder)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("credit card agent listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
