package advisor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eik-Lab/studieveileder/internal/config"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKeywordResponder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		want  string
	}{
		{query: "Hvordan søker jeg om PERMISJON?", want: "permisjon fra studiet"},
		{query: "Når er fristen for semesterregistrering?", want: "midten av august"},
		{query: "Hvor finner jeg timeplan?", want: "TimeEdit"},
		{query: "Hva er kravene for bacheloroppgave?", want: "bacheloroppgaven varierer"},
		{query: "Hva er NMBU?", want: "livsvitenskapene"},
		{query: "Er kantina åpen?", want: "Takk for spørsmålet ditt om 'Er kantina åpen?'"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()

			got, err := KeywordResponder{}.Answer(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestKeywordResponder_FirstMatchWins(t *testing.T) {
	t.Parallel()

	// "nmbu" is listed before "timeplan".
	got, err := KeywordResponder{}.Answer(context.Background(), "timeplan på NMBU")
	require.NoError(t, err)
	assert.Contains(t, got, "livsvitenskapene")
}

func TestNew_PicksImplementation(t *testing.T) {
	t.Parallel()

	assert.IsType(t, KeywordResponder{}, New(config.AdvisorConfig{}, newTestLogger()))
	assert.IsType(t, &Relay{}, New(config.AdvisorConfig{URL: "http://advisor", Timeout: time.Second}, newTestLogger()))
}

func TestRelay_Answer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hva er INF120?", req.Query)
		_ = json.NewEncoder(w).Encode(chatResponse{Answer: "Et programmeringsemne."})
	}))
	defer srv.Close()

	relay := NewRelay(config.AdvisorConfig{URL: srv.URL, Timeout: time.Second}, newTestLogger())
	got, err := relay.Answer(context.Background(), "Hva er INF120?")
	require.NoError(t, err)
	assert.Equal(t, "Et programmeringsemne.", got)
}

func TestRelay_EmptyAnswer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer": "  "}`))
	}))
	defer srv.Close()

	relay := NewRelay(config.AdvisorConfig{URL: srv.URL, Timeout: time.Second}, newTestLogger())
	got, err := relay.Answer(context.Background(), "hei")
	require.NoError(t, err)
	assert.Equal(t, NoAnswer, got)
}

func TestRelay_Errors(t *testing.T) {
	t.Parallel()

	t.Run("non-2xx", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		relay := NewRelay(config.AdvisorConfig{URL: srv.URL, Timeout: time.Second}, newTestLogger())
		_, err := relay.Answer(context.Background(), "hei")
		require.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("bad json", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		relay := NewRelay(config.AdvisorConfig{URL: srv.URL, Timeout: time.Second}, newTestLogger())
		_, err := relay.Answer(context.Background(), "hei")
		require.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		relay := NewRelay(config.AdvisorConfig{URL: srv.URL, Timeout: 30 * time.Millisecond}, newTestLogger())
		_, err := relay.Answer(context.Background(), "hei")
		require.ErrorIs(t, err, ErrTimeout)
	})
}
