/*
main.go - Application entry point

PURPOSE:
  Starts the cash-flow planner server: configuration, dependency wiring,
  and graceful shutdown.

CONFIGURATION:
  Flags win over environment variables; a .env file is loaded first if
  present.
    -port / PORT           HTTP server port (default 8080)
    -db   / CASHFLOW_DB    SQLite snapshot database path
                           (default cashflow.db, ":memory:" for in-memory)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain active requests
  (30s timeout), close the snapshot store, exit.

SEE ALSO:
  - api/server.go: router configuration
  - store/sqlite/sqlite.go: snapshot persistence
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fluxo/cashflow-engine/api"
	"github.com/fluxo/cashflow-engine/cashflow"
	"github.com/fluxo/cashflow-engine/store/sqlite"
)

func main() {
	_ = godotenv.Load() // best effort; env vars may come from elsewhere

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("CASHFLOW_DB", "cashflow.db"), "SQLite snapshot database path")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	snapshots, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal("failed to open snapshot store", zap.String("path", *dbPath), zap.Error(err))
	}
	defer snapshots.Close()

	ledger := cashflow.NewLedger()
	handler := api.NewHandler(ledger, snapshots, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.Int("port", *port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
