// Package advisor answers free-text student questions, either by relaying
// them to an external advisor service or with built-in canned answers.
package advisor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Eik-Lab/studieveileder/internal/config"
)

var (
	// ErrUnavailable means the advisor service failed or answered non-2xx.
	ErrUnavailable = errors.New("advisor unavailable")
	// ErrTimeout means the advisor service did not answer in time.
	ErrTimeout = errors.New("advisor timed out")
)

// NoAnswer is shown when the advisor returns an empty answer.
const NoAnswer = "Beklager, ingen svar tilgjengelig."

// Answerer answers one question.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// New returns a Relay when cfg.URL is set and the keyword responder otherwise.
func New(cfg config.AdvisorConfig, logger *slog.Logger) Answerer {
	if cfg.URL == "" {
		logger.Info("advisor url not set, using built-in keyword answers")
		return KeywordResponder{}
	}
	return NewRelay(cfg, logger)
}
