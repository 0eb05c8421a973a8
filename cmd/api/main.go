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

	"github.com/memorizabiblia/memoriza-api/internal/database"
	"github.com/memorizabiblia/memoriza-api/internal/localstore"
	"github.com/memorizabiblia/memoriza-api/internal/remotestore"
	"github.com/memorizabiblia/memoriza-api/internal/server"
	"github.com/memorizabiblia/memoriza-api/pkg/config"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to profile database: %v", err)
	}
	defer db.Close()

	if cfg.AppEnv != "production" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := remotestore.InitSchema(ctx, db.DB()); err != nil {
			log.Fatalf("failed to apply remote schema: %v", err)
		}
		cancel()
	}

	local, err := localstore.Open(cfg.DeviceDBPath)
	if err != nil {
		log.Fatalf("failed to open device database: %v", err)
	}
	defer local.Close()

	srv := server.NewServer(db, local, cfg)
	httpServer := srv.HTTPServer()

	srv.StartBackgroundJobs()

	go func() {
		log.Printf("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	srv.StopBackgroundJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	log.Println("server stopped")
}
