// Command speechtester runs a single recognize or speak exchange against the
// configured speech gateway.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/logging"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/speech"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	mode := flag.String("mode", "", "exchange to run: recognize or speak")
	text := flag.String("text", "", "text to speak")
	gatewayURL := flag.String("gateway", "", "gateway url, overrides speech.gateway_url")
	voice := flag.String("voice", "", "voice, overrides speech.voice")
	language := flag.String("lang", "", "language, overrides speech.language")
	timeout := flag.Duration("timeout", 45*time.Second, "exchange timeout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "speechtester: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewWithWriter(cfg.Log, os.Stderr)

	speechCfg := overrides(cfg.Speech, *gatewayURL, *voice, *language, *timeout)
	if err := run(context.Background(), speechCfg, *mode, *text, logger); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
		}
		logger.Error().Err(err).Str("mode", *mode).Msg("speech exchange failed")
		os.Exit(1)
	}
}

var errUsage = errors.New("mode must be recognize or speak")

func overrides(cfg config.SpeechConfig, gatewayURL, voice, language string, timeout time.Duration) config.SpeechConfig {
	cfg.Enabled = true
	if gatewayURL != "" {
		cfg.GatewayURL = gatewayURL
	}
	if voice != "" {
		cfg.Voice = voice
	}
	if language != "" {
		cfg.Language = language
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg
}

func run(ctx context.Context, cfg config.SpeechConfig, mode, text string, logger zerolog.Logger) error {
	if mode != "recognize" && mode != "speak" {
		return errUsage
	}

	gw, err := speech.NewGateway(cfg, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	switch mode {
	case "recognize":
		heard, err := gw.RecognizeOnce(ctx)
		if err != nil {
			return err
		}
		logger.Info().Str("text", heard).Dur("elapsed", time.Since(start)).Msg("recognized")
		fmt.Println(heard)
	case "speak":
		if strings.TrimSpace(text) == "" {
			return errors.New("-text is required for speak")
		}
		if err := gw.Speak(ctx, text); err != nil {
			return err
		}
		logger.Info().Int("chars", len(text)).Dur("elapsed", time.Since(start)).Msg("spoken")
	}
	return nil
}
