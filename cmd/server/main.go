/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the budget engine server.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Open the SQLite store
  3. Create the API handler and router
  4. Start the materialization scheduler
  5. Serve HTTP with graceful shutdown

COMMAND-LINE FLAGS:
  -port                  HTTP server port (default: 8080)
  -db                    SQLite database path (default: budget.db)
                         Use ":memory:" for an in-memory database
  -materialize-interval  How often the current period is re-materialized
                         in the background (default: 1h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the store
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/budget-engine/api"
	"github.com/warp/budget-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "budget.db", "SQLite database path")
	interval := flag.Duration("materialize-interval", time.Hour, "background materialization interval")
	flag.Parse()

	kv, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer kv.Close()

	handler := api.NewHandler(kv)
	router := api.NewRouter(handler)

	scheduler := api.NewMaterializationScheduler(handler.Tracker, *interval)
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped")
}
