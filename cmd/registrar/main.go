package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"registrar/internal/config"
	"registrar/internal/handler"
	"registrar/internal/logging"
	"registrar/internal/repository/sqlite"
	"registrar/internal/service"
)

func main() {
	// Command line flags override the config file
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	// .env is optional; it only populates the environment
	_ = godotenv.Load()

	cfg, cfgSource, err := loadConfig(*configPath)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Pretty)
	if cfgSource != "" {
		log.Info().Str("path", cfgSource).Msg("config loaded")
	}

	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer repo.Close()
	log.Info().Str("path", cfg.Database.Path).Msg("database opened")

	svc := service.NewSchool(repo)

	// A companion JSON document next to the database is imported with
	// upsert semantics on startup; a missing file is not an error.
	if err := seedFromFile(svc, cfg.SeedFile, log); err != nil {
		log.Fatal().Err(err).Str("path", cfg.SeedFile).Msg("seed import failed")
	}

	schoolHandler := handler.NewSchoolHandler(svc, log, cfg.BackupDir)
	mux := http.NewServeMux()
	schoolHandler.Register(mux)

	finalHandler := handler.Chain(mux,
		handler.Recover(log),
		handler.CORS,
		handler.RequestLogger(log),
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}

func loadConfig(explicit string) (*config.Config, string, error) {
	if explicit != "" {
		return config.LoadFromPath(explicit)
	}
	return config.Load()
}

// seedFromFile imports the companion document when it exists.
func seedFromFile(svc *service.School, path string, log zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	summary, err := svc.ImportJSON(context.Background(), f)
	if err != nil {
		return err
	}
	log.Info().
		Str("path", path).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("failed", len(summary.Failed)).
		Msg("seed imported")
	return nil
}
