package gradestats

import (
	"context"
	"fmt"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

// Source fetches grade data for one course and year from a single upstream.
type Source interface {
	Kind() types.StatisticsSource
	Fetch(ctx context.Context, courseCode string, year int) (types.GradeStatistics, error)
}

// RowLookup finds the stored percentage row for a course and year.
// Implementations return an error wrapping types.ErrNotFound when there is none.
type RowLookup interface {
	GetGradeRow(ctx context.Context, courseCode string, year int) (*types.GradeRow, error)
}

// CSVFetcher downloads the raw grade export for a course and year.
type CSVFetcher interface {
	FetchCSV(ctx context.Context, courseCode string, year int) (string, error)
}

// PercentageRowSource reads pre-aggregated rows from the database.
type PercentageRowSource struct {
	rows RowLookup
}

func NewPercentageRowSource(rows RowLookup) *PercentageRowSource {
	return &PercentageRowSource{rows: rows}
}

func (s *PercentageRowSource) Kind() types.StatisticsSource {
	return types.SourceDatabase
}

func (s *PercentageRowSource) Fetch(ctx context.Context, courseCode string, year int) (types.GradeStatistics, error) {
	row, err := s.rows.GetGradeRow(ctx, courseCode, year)
	if err != nil {
		return types.GradeStatistics{}, err
	}
	return NormalizeRow(*row), nil
}

// CSVExportSource reads raw CSV exports from the DBH statistics API.
type CSVExportSource struct {
	fetcher CSVFetcher
}

func NewCSVExportSource(fetcher CSVFetcher) *CSVExportSource {
	return &CSVExportSource{fetcher: fetcher}
}

func (s *CSVExportSource) Kind() types.StatisticsSource {
	return types.SourceDBH
}

func (s *CSVExportSource) Fetch(ctx context.Context, courseCode string, year int) (types.GradeStatistics, error) {
	body, err := s.fetcher.FetchCSV(ctx, courseCode, year)
	if err != nil {
		return types.GradeStatistics{}, err
	}
	return ParseCSV(body, year), nil
}

// NewSource selects the strategy named by kind ("database" or "dbh").
func NewSource(kind string, rows RowLookup, fetcher CSVFetcher) (Source, error) {
	switch types.StatisticsSource(kind) {
	case types.SourceDatabase:
		if rows == nil {
			return nil, fmt.Errorf("grade source %q requires a row lookup", kind)
		}
		return NewPercentageRowSource(rows), nil
	case types.SourceDBH:
		if fetcher == nil {
			return nil, fmt.Errorf("grade source %q requires a CSV fetcher", kind)
		}
		return NewCSVExportSource(fetcher), nil
	default:
		return nil, fmt.Errorf("unknown grade source %q (must be 'database' or 'dbh')", kind)
	}
}
