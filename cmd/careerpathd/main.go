package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/handler"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/logging"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/ai"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/chat"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)

	gen, err := ai.NewGenerator(ctx, cfg.AI)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.AI.Provider).Msg("failed to initialize generator, falling back to canned replies")
		gen = ai.NewCannedGenerator()
	} else {
		logger.Info().Str("provider", cfg.AI.Provider).Msg("generator initialized")
	}

	aiService := ai.NewService(gen, logger)
	chatService := chat.NewService()

	router := handler.NewRouter(chatService, aiService, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger zerolog.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info().Str("addr", addr).Msg("CareerPath backend listening")
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal().Err(err).Msg("server error")
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
