package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"docmesh.org/internal/auth"
	"docmesh.org/internal/config"
	"docmesh.org/internal/docs"
	"docmesh.org/internal/httpapi"
	"docmesh.org/internal/obs"
)

var version = "0.3.0"

func main() {
	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var db *sql.DB
	var identityStore auth.Store
	var docStore docs.Store
	if cfg.PGDSN != "" {
		db, err = sql.Open("pgx", cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		identityStore = auth.NewPGStore(db)
		docStore = docs.NewPGStore(db)
	} else {
		log.Println("no DOCMESH_PG_DSN set, using in-memory stores")
		identityStore = auth.NewMemStore()
		docStore = docs.NewMemStore()
	}

	// Token verification only here. Issuance lives in the auth service; the
	// shared secret lets this binary verify what that one signed.
	authSvc, err := auth.NewService(identityStore, cfg.AuthSecret, auth.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	docSvc := docs.NewService(docStore)

	api := httpapi.New(authSvc, httpapi.ReadyProbe{DB: db}, "documents", version,
		httpapi.WithDocuments(docSvc, cfg.UploadDir),
	)

	handler := httpapi.RateLimit(api.Handler(), cfg.RateLimitBurst, cfg.RateLimitPerSecond)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	log.Printf("Starting docmesh-documents %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
