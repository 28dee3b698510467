package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

// mapError converts pgx errors to the shared sentinels.
// Context errors pass through unchanged so callers can tell a timeout apart.
func mapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, types.ErrNotFound)
	}

	return fmt.Errorf("%s %s: %w", entity, key, err)
}
