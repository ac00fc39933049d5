package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/config"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/logging"
	"github.com/Bahadou-Badr/ResoNet-Music-Classification-API-Go/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// config problems are fatal at startup, never per-request
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.RunAPIServer(ctx, cfg)
	if err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("api server listening on %s", srv.Addr)

	<-ctx.Done()
	// RunAPIServer's shutdown goroutine drains connections; give it a moment
	time.Sleep(200 * time.Millisecond)
	logging.Sync()
	log.Println("server stopped")
}
