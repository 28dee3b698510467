// Package dbh downloads grade distributions from the DBH statistics database
// (Database for statistikk om høyere utdanning) as CSV table exports.
package dbh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Eik-Lab/studieveileder/internal/config"
)

// DefaultMaxBodyBytes caps a CSV export when the config leaves it unset.
const DefaultMaxBodyBytes = 4 << 20

// ErrBodyTooLarge is returned when an export exceeds the configured cap.
var ErrBodyTooLarge = errors.New("dbh: response body too large")

// Client posts table queries to the DBH CSV export endpoint.
type Client struct {
	url          string
	tableID      int
	institution  string
	maxBodyBytes int64
	httpClient   *http.Client
	log          *slog.Logger
}

// NewClient creates a Client from cfg. The caller's context bounds each
// request; the http.Client itself has no timeout.
func NewClient(cfg config.DBHConfig, logger *slog.Logger) *Client {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Client{
		url:          cfg.URL,
		tableID:      cfg.TableID,
		institution:  cfg.Institution,
		maxBodyBytes: maxBody,
		httpClient:   &http.Client{},
		log:          logger.With("adapter", "dbh"),
	}
}

// StatusError is returned when DBH answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dbh: unexpected status %s", e.Status)
}

type selection struct {
	Filter  string   `json:"filter"`
	Values  []string `json:"values"`
	Exclude []string `json:"exclude"`
}

type filter struct {
	Variable  string    `json:"variabel"`
	Selection selection `json:"selection"`
}

type tableQuery struct {
	TableID          int      `json:"tabell_id"`
	APIVersion       int      `json:"api_versjon"`
	StatusLine       string   `json:"statuslinje"`
	CodeText         string   `json:"kodetekst"`
	DecimalSeparator string   `json:"desimal_separator"`
	GroupBy          []string `json:"groupBy"`
	SortBy           []string `json:"sortBy"`
	Filter           []filter `json:"filter"`
}

func itemFilter(variable, value string) filter {
	return filter{
		Variable:  variable,
		Selection: selection{Filter: "item", Values: []string{value}, Exclude: []string{""}},
	}
}

func (c *Client) gradeQuery(courseCode string, year int) tableQuery {
	return tableQuery{
		TableID:          c.tableID,
		APIVersion:       1,
		StatusLine:       "J",
		CodeText:         "J",
		DecimalSeparator: ".",
		GroupBy:          []string{"Institusjonskode", "Emnekode", "Årstall", "Karakter"},
		SortBy:           []string{"Institusjonskode", "Emnekode"},
		Filter: []filter{
			itemFilter("Institusjonskode", c.institution),
			itemFilter("Emnekode", courseCode),
			itemFilter("Årstall", strconv.Itoa(year)),
		},
	}
}

// FetchCSV returns the raw CSV export of grade counts for a course and year.
func (c *Client) FetchCSV(ctx context.Context, courseCode string, year int) (string, error) {
	payload, err := json.Marshal(c.gradeQuery(courseCode, year))
	if err != nil {
		return "", fmt.Errorf("dbh: encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("dbh: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.DebugContext(ctx, "dbh request", slog.String("course", courseCode), slog.Int("year", year))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("dbh: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("dbh: read body: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, c.maxBodyBytes)
	}

	c.log.DebugContext(ctx, "dbh response",
		slog.String("course", courseCode),
		slog.Int("year", year),
		slog.Int("bytes", len(body)),
	)

	return string(body), nil
}
