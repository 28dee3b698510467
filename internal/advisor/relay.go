package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Eik-Lab/studieveileder/internal/config"
)

// Relay forwards questions to an external advisor service that accepts
// {"query": ...} and answers {"answer": ...}.
type Relay struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

func NewRelay(cfg config.AdvisorConfig, logger *slog.Logger) *Relay {
	return &Relay{
		url:        cfg.URL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		log:        logger.With("adapter", "advisor"),
	}
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// Answer relays query. Errors wrap ErrTimeout or ErrUnavailable.
func (r *Relay) Answer(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("advisor: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("advisor: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %s", ErrUnavailable, resp.Status)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
		}
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	r.log.DebugContext(ctx, "advisor answered", slog.Duration("duration", time.Since(start)))

	if strings.TrimSpace(out.Answer) == "" {
		return NoAnswer, nil
	}
	return out.Answer, nil
}
