package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/client"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/logging"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/catalog"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/interview"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/mockinterview"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/session"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/speech"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "careerpath: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewWithWriter(cfg.Log, os.Stderr)

	sh, closeFn, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	startup(ctx, sh, logger)
	fmt.Fprintln(sh.out, "CareerPath AI. Type /help for commands.")
	return sh.run(ctx, os.Stdin)
}

// build wires the engine components from cfg.
func build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*shell, func(), error) {
	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing store failed")
		}
	}

	cl, err := client.New(cfg.Client, logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	capability, err := speech.New(cfg.Speech, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("speech unavailable")
		capability = speech.Noop{}
	}

	var replier interview.Replier = interview.NewRemoteReplier(cl)
	if cfg.Interview.Offline {
		replier = interview.NewOfflineReplier()
	}

	list := catalog.NewManager(cl, logger)
	sh := &shell{
		controller:   session.NewController(cl, st, list, logger),
		catalog:      list,
		interview:    interview.NewFlow(replier, st, cfg.Interview.TranscriptKey, logger),
		mock:         mockinterview.NewFlow(cl, capability, cfg.Interview.MinQuestions, logger),
		defaultLevel: cfg.Interview.ExperienceLevel,
		out:          os.Stdout,
	}
	return sh, closeFn, nil
}

// startup restores the active session and loads the catalog concurrently;
// they touch disjoint state.
func startup(ctx context.Context, sh *shell, logger zerolog.Logger) {
	var wg conc.WaitGroup
	wg.Go(func() {
		if err := sh.controller.Restore(ctx); err != nil {
			logger.Warn().Err(err).Msg("restoring active session failed")
		}
	})
	wg.Go(func() {
		// Refresh logs its own failures.
		_ = sh.catalog.Refresh(ctx)
	})
	wg.Go(func() {
		sh.interview.Restore(ctx)
	})
	wg.Wait()
}
