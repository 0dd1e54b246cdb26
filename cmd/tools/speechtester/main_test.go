package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	speechhandler "github.com/Yash-Raj20/Careerpath-Frontend/internal/handler/speech"
)

func TestRunRejectsUnknownMode(t *testing.T) {
	err := run(context.Background(), config.SpeechConfig{GatewayURL: "ws://localhost:1"}, "listen", "", zerolog.Nop())
	assert.ErrorIs(t, err, errUsage)
}

func TestRunSpeak(t *testing.T) {
	h := speechhandler.New(zerolog.Nop())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	cfg := overrides(config.SpeechConfig{}, "ws"+strings.TrimPrefix(srv.URL, "http")+"/speech/ws", "", "en-US", 2*time.Second)
	require.NoError(t, run(context.Background(), cfg, "speak", "hello there", zerolog.Nop()))
	assert.Equal(t, []string{"hello there"}, h.Spoken())

	assert.Error(t, run(context.Background(), cfg, "speak", " ", zerolog.Nop()))
}

func TestOverrides(t *testing.T) {
	cfg := overrides(config.SpeechConfig{GatewayURL: "ws://a", Language: "en-US"}, "", "alloy", "", 0)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "ws://a", cfg.GatewayURL)
	assert.Equal(t, "alloy", cfg.Voice)
	assert.Equal(t, "en-US", cfg.Language)
}
