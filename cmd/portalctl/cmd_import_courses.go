package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Eik-Lab/studieveileder/internal/importer"
	"github.com/Eik-Lab/studieveileder/internal/postgres"
)

type courseFlags struct {
	dir        string
	fromBucket bool
	folder     string
	dryRun     bool
}

func newImportCoursesCommand(e *env) *cobra.Command {
	var flags courseFlags

	cmd := &cobra.Command{
		Use:   "import-courses",
		Short: "Load course pages into the course catalog",
		Long: `Parse plain-text course pages (one file per course, named after the
course code, e.g. INF120.txt) and upsert them into the course table. Name,
credits, teaching term, faculty, coordinator, language, seats and the long
description sections are extracted; pages with too little text are skipped.

Pages come from a local directory (--dir) or from the configured Firebase
Storage bucket (--from-bucket).`,
		Example: `  portalctl import-courses --dir ./subject_contents --dry-run
  portalctl import-courses --from-bucket --folder courses/2025/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			ctx := cmd.Context()

			src, err := sheetSource(ctx, e, flags.dir, flags.fromBucket, flags.folder, e.cfg.Storage.CoursesFolder)
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(ctx, e.cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			return runCourseImport(ctx, postgres.NewStore(pool), src, flags.dryRun, e.log, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "Local directory holding the course pages")
	cmd.Flags().BoolVar(&flags.fromBucket, "from-bucket", false, "Read course pages from the Firebase Storage bucket")
	cmd.Flags().StringVar(&flags.folder, "folder", "", "Bucket folder to read (default: storage.courses_folder)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Parse and report without writing to the database")
	cmd.MarkFlagsMutuallyExclusive("dir", "from-bucket")
	cmd.MarkFlagsOneRequired("dir", "from-bucket")

	return cmd
}

func (f courseFlags) validate() error {
	if f.folder != "" && !f.fromBucket {
		return errors.New("--folder only applies with --from-bucket")
	}
	return nil
}

func runCourseImport(ctx context.Context, store importer.CourseStore, src importer.SheetSource, dryRun bool, logger *slog.Logger, out io.Writer) error {
	report, err := importer.NewCourseImporter(store, dryRun, logger).Run(ctx, src)
	if err != nil {
		return err
	}

	mode := "written"
	if dryRun {
		mode = "dry run, nothing written"
	}
	fmt.Fprintf(out, "pages: %d, parsed: %d, courses written: %d (%s)\n",
		report.Files, report.Parsed, report.Written, mode)
	if len(report.Skipped) > 0 {
		fmt.Fprintf(out, "skipped: %s\n", strings.Join(report.Skipped, ", "))
	}
	return nil
}
