package main

import (
	"context"
	"log"
	"os"

	"github.com/hondana/bookmarket-backend/internal/config"
	"github.com/hondana/bookmarket-backend/internal/db"
	appmw "github.com/hondana/bookmarket-backend/internal/middleware"
	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/payment"
	"github.com/hondana/bookmarket-backend/internal/server"
	"github.com/joho/godotenv"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	verifier, err := appmw.NewFirebaseVerifier(context.Background())
	if err != nil {
		log.Fatalf("firebase auth init error: %v", err)
	}

	payments := payment.NewStripeProvider(cfg.StripeSecretKey, cfg.Currency)

	srv := server.New(nil, verifier, payments, gitSHA, buildTime)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	// Connect in the background so the port binds immediately on Cloud Run;
	// repositories report ErrDBNotReady until injection completes.
	go func() {
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		srv.SetDB(conn)
		if err := conn.AutoMigrate(
			&model.Profile{},
			&model.Book{},
			&model.Listing{},
			&model.CartItem{},
			&model.Order{},
			&model.Message{},
			&model.Notification{},
		); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
