// Package importer loads catalog data into the database: course pages into
// the course table, and yearly grade-percentage sheets, matched to catalog
// courses by name, into the grade table.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

// SheetSource lists the sheets to import.
type SheetSource interface {
	Sheets(ctx context.Context) ([]types.SheetFile, error)
}

// Store is what the importer reads courses from and writes grade rows to.
type Store interface {
	ListCourses(ctx context.Context) ([]types.Course, error)
	UpsertGradeRows(ctx context.Context, rows []types.GradeRow) (int64, error)
}

// Report summarizes one import run.
type Report struct {
	Files   int
	Matched int
	Written int64
	Skipped []string
}

type Options struct {
	Threshold float64 // defaults to DefaultThreshold
	DryRun    bool    // match and report without writing
}

type Importer struct {
	store Store
	opts  Options
	log   *slog.Logger
}

func New(store Store, opts Options, logger *slog.Logger) *Importer {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Importer{store: store, opts: opts, log: logger.With("component", "importer")}
}

// Run imports every CSV sheet from src in name order. Sheets without a year
// in their name are skipped; a malformed sheet aborts the run.
func (im *Importer) Run(ctx context.Context, src SheetSource) (Report, error) {
	var report Report

	courses, err := im.store.ListCourses(ctx)
	if err != nil {
		return report, fmt.Errorf("load courses: %w", err)
	}

	sheets, err := src.Sheets(ctx)
	if err != nil {
		return report, fmt.Errorf("list sheets: %w", err)
	}
	slices.SortFunc(sheets, func(a, b types.SheetFile) int { return strings.Compare(a.Name, b.Name) })

	for _, sheet := range sheets {
		if !strings.EqualFold(filepath.Ext(sheet.Name), ".csv") {
			report.Skipped = append(report.Skipped, sheet.Name)
			im.log.WarnContext(ctx, "skipping non-csv sheet", slog.String("file", sheet.Name))
			continue
		}

		year, err := YearFromFilename(filepath.Base(sheet.Name))
		if err != nil {
			report.Skipped = append(report.Skipped, sheet.Name)
			im.log.WarnContext(ctx, "skipping sheet", slog.String("file", sheet.Name), slog.String("error", err.Error()))
			continue
		}

		rows, err := ParseSheet(sheet.Data)
		if err != nil {
			return report, fmt.Errorf("parse %s: %w", sheet.Name, err)
		}

		matched := MatchRows(courses, rows, year, im.opts.Threshold)
		report.Files++
		report.Matched += len(matched)

		im.log.InfoContext(ctx, "processed sheet",
			slog.String("file", sheet.Name),
			slog.Int("year", year),
			slog.Int("sheet_rows", len(rows)),
			slog.Int("matched", len(matched)),
		)

		if im.opts.DryRun || len(matched) == 0 {
			continue
		}

		n, err := im.store.UpsertGradeRows(ctx, matched)
		if err != nil {
			return report, fmt.Errorf("write %s: %w", sheet.Name, err)
		}
		report.Written += n
	}

	return report, nil
}

// DirSource reads sheets from a local directory (not recursive).
type DirSource struct {
	Dir string
}

func (d DirSource) Sheets(_ context.Context) ([]types.SheetFile, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, err
	}

	var sheets []types.SheetFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(d.Dir, e.Name()))
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, types.SheetFile{Name: e.Name(), Data: data})
	}
	return sheets, nil
}

// Downloader fetches every sheet under a storage folder.
type Downloader interface {
	DownloadSheets(ctx context.Context, folder string) ([]types.SheetFile, error)
}

// BucketSource reads sheets from an object storage folder.
type BucketSource struct {
	Bucket Downloader
	Folder string
}

func (b BucketSource) Sheets(ctx context.Context) ([]types.SheetFile, error) {
	return b.Bucket.DownloadSheets(ctx, b.Folder)
}
