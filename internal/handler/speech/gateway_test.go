package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	speechwire "github.com/Yash-Raj20/Careerpath-Frontend/internal/speech"
)

func newGatewayServer(t *testing.T, opts ...Option) (*Handler, *httptest.Server, *speechwire.Gateway) {
	t.Helper()
	h := New(zerolog.Nop(), opts...)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	gw, err := speechwire.NewGateway(config.SpeechConfig{
		Enabled:    true,
		GatewayURL: "ws" + strings.TrimPrefix(srv.URL, "http") + "/speech/ws",
		Timeout:    2 * time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)
	return h, srv, gw
}

func enqueue(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/speech/utterances", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRecognizeReturnsQueuedUtterance(t *testing.T) {
	_, srv, gw := newGatewayServer(t)

	resp := enqueue(t, srv, `{"text":"  closures capture variables  "}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	text, err := gw.RecognizeOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "closures capture variables", text)
}

func TestRecognizeTimesOutWithoutUtterance(t *testing.T) {
	_, _, gw := newGatewayServer(t, WithRecognizeTimeout(50*time.Millisecond))

	_, err := gw.RecognizeOnce(context.Background())
	var gwErr *speechwire.GatewayError
	require.True(t, errors.As(err, &gwErr), "got %v", err)
	assert.Equal(t, "no speech detected", gwErr.Message)
}

func TestSpeakIsRecorded(t *testing.T) {
	h, srv, gw := newGatewayServer(t)

	require.NoError(t, gw.Speak(context.Background(), "What is a closure?"))
	assert.Equal(t, []string{"What is a closure?"}, h.Spoken())

	resp, err := http.Get(srv.URL + "/speech/spoken")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSpeakRejectsBlankText(t *testing.T) {
	_, _, gw := newGatewayServer(t)

	err := gw.Speak(context.Background(), "   ")
	var gwErr *speechwire.GatewayError
	require.True(t, errors.As(err, &gwErr), "got %v", err)
	assert.Equal(t, "text is required", gwErr.Message)
}

func TestEnqueueValidation(t *testing.T) {
	_, srv, _ := newGatewayServer(t)

	assert.Equal(t, http.StatusBadRequest, enqueue(t, srv, `{"text":" "}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, enqueue(t, srv, `not json`).StatusCode)
}

func TestEnqueueRejectsWhenFull(t *testing.T) {
	_, srv, _ := newGatewayServer(t)

	for i := 0; i < queueSize; i++ {
		require.Equal(t, http.StatusAccepted, enqueue(t, srv, `{"text":"next"}`).StatusCode)
	}
	assert.Equal(t, http.StatusServiceUnavailable, enqueue(t, srv, `{"text":"next"}`).StatusCode)
}
