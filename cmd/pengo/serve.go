package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rgehrsitz/pengo/internal/api"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/spf13/cobra"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 30 * time.Second

	// Data directory file names picked up by PENGO_DATA_DIR / --data-dir
	lifespanFileName   = "lifespan.csv"
	indexationFileName = "indexation.csv"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection API over HTTP",
	Long: `Serve the JSON API. Settings come from flags, then the environment
(optionally loaded from a .env file), then defaults:

  PENGO_ADDR          listen address (default :8080)
  PENGO_DATA_DIR      directory holding lifespan.csv and indexation.csv
  PENGO_CORS_ORIGINS  comma-separated allowed origins

The reference tables are loaded once, on the first request that needs them.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// serveSettings is the resolved server configuration
type serveSettings struct {
	Addr           string
	Reference      domain.ReferenceDataConfig
	AllowedOrigins []string
	RequestLogging bool
}

// resolveServeSettings merges flags over environment over defaults
func resolveServeSettings(cmd *cobra.Command, getenv func(string) string) serveSettings {
	s := serveSettings{Addr: defaultAddr}

	if addr := getenv("PENGO_ADDR"); addr != "" {
		s.Addr = addr
	}
	if cmd.Flags().Changed("addr") {
		s.Addr, _ = cmd.Flags().GetString("addr")
	}

	dataDir := getenv("PENGO_DATA_DIR")
	if cmd.Flags().Changed("data-dir") {
		dataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if dataDir != "" {
		s.Reference.LifespanFile = filepath.Join(dataDir, lifespanFileName)
		s.Reference.IndexationFile = filepath.Join(dataDir, indexationFileName)
	}
	applyReferenceFlags(cmd, &s.Reference)

	origins := getenv("PENGO_CORS_ORIGINS")
	if cmd.Flags().Changed("cors-origins") {
		origins, _ = cmd.Flags().GetString("cors-origins")
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			s.AllowedOrigins = append(s.AllowedOrigins, o)
		}
	}

	s.RequestLogging, _ = cmd.Flags().GetBool("debug")
	return s
}

func runServe(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	settings := resolveServeSettings(cmd, os.Getenv)
	provider := refdata.NewConfiguredProvider(settings.Reference)
	handler := api.NewHandler(provider, loggerFor(cmd))
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: settings.AllowedOrigins,
		RequestLogging: settings.RequestLogging,
	})
	server := api.NewServer(settings.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("pengo API listening on %s", settings.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

func init() {
	serveCmd.Flags().String("addr", defaultAddr, "Listen address (env PENGO_ADDR)")
	serveCmd.Flags().String("data-dir", "", "Directory with lifespan.csv and indexation.csv (env PENGO_DATA_DIR)")
	serveCmd.Flags().String("cors-origins", "", "Comma-separated allowed CORS origins (env PENGO_CORS_ORIGINS)")
	serveCmd.Flags().String("env-file", ".env", "Environment file to load when present")

	rootCmd.AddCommand(serveCmd)
}
