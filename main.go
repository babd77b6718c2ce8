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

	"hrdash/internal"
	"hrdash/internal/config"
	"hrdash/internal/container"
	"hrdash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)
	logger := internal.NewDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(ctx); err != nil {
		appContainer.Shutdown(context.Background())
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.StartWatcher(ctx); err != nil {
		log.Fatalf("Failed to start data watcher: %v", err)
	}

	servers := []*http.Server{{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           ui.NewServer(appContainer.Dashboard, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if appConfig.Profiling.Enabled {
		servers = append(servers, &http.Server{
			Addr:              ":" + appConfig.Profiling.Port,
			Handler:           ui.NewAdmin(appContainer.Dashboard, appContainer.Watcher, logger).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		})
		log.Printf("Admin server on :%s (pprof at /debug/pprof/)", appConfig.Profiling.Port)
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}
	log.Printf("Starting hrdash on port %s", appConfig.Server.Port)

	select {
	case <-ctx.Done():
		log.Println("Shutting down")
	case err := <-errCh:
		log.Printf("Server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown of %s failed: %v", srv.Addr, err)
		}
	}
}
