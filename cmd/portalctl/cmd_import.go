package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Eik-Lab/studieveileder/internal/firebase"
	"github.com/Eik-Lab/studieveileder/internal/importer"
	"github.com/Eik-Lab/studieveileder/internal/postgres"
)

type importFlags struct {
	dir        string
	fromBucket bool
	folder     string
	dryRun     bool
	threshold  float64
}

func newImportGradesCommand(e *env) *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import-grades",
		Short: "Import yearly grade percentage sheets",
		Long: `Read grade sheets (CSV: course name, A-F, bestått, ikke bestått), match
each row to a catalog course by name and upsert the percentages into the grade
table. The exam year is taken from the first four-digit number in each file
name, e.g. karakterer_2023.csv.

Sheets come from a local directory (--dir) or from the configured Firebase
Storage bucket (--from-bucket).`,
		Example: `  portalctl import-grades --dir ./sheets --dry-run
  portalctl import-grades --from-bucket --folder grades/2024/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			ctx := cmd.Context()

			src, err := sheetSource(ctx, e, flags.dir, flags.fromBucket, flags.folder, e.cfg.Storage.GradesFolder)
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(ctx, e.cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			opts := importer.Options{Threshold: flags.threshold, DryRun: flags.dryRun}
			return runImport(ctx, postgres.NewStore(pool), src, opts, e.log, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "Local directory holding the grade sheets")
	cmd.Flags().BoolVar(&flags.fromBucket, "from-bucket", false, "Read grade sheets from the Firebase Storage bucket")
	cmd.Flags().StringVar(&flags.folder, "folder", "", "Bucket folder to read (default: storage.grades_folder)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Match and report without writing to the database")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", importer.DefaultThreshold, "Minimum name similarity (0-1] for a match")
	cmd.MarkFlagsMutuallyExclusive("dir", "from-bucket")
	cmd.MarkFlagsOneRequired("dir", "from-bucket")

	return cmd
}

func (f importFlags) validate() error {
	if f.threshold <= 0 || f.threshold > 1 {
		return fmt.Errorf("--threshold must be in (0, 1], got %g", f.threshold)
	}
	if f.folder != "" && !f.fromBucket {
		return errors.New("--folder only applies with --from-bucket")
	}
	return nil
}

// sheetSource reads files from dir, or from folder in the configured bucket
// (defaultFolder when folder is empty).
func sheetSource(ctx context.Context, e *env, dir string, fromBucket bool, folder, defaultFolder string) (importer.SheetSource, error) {
	if !fromBucket {
		return importer.DirSource{Dir: dir}, nil
	}

	if folder == "" {
		folder = defaultFolder
	}

	app, err := firebase.NewApp(ctx, e.cfg.Storage)
	if err != nil {
		return nil, err
	}
	bucket, err := firebase.NewCloudStorage(ctx, app, e.cfg.Storage.Bucket, e.log)
	if err != nil {
		return nil, err
	}
	return importer.BucketSource{Bucket: bucket, Folder: folder}, nil
}

func runImport(ctx context.Context, store importer.Store, src importer.SheetSource, opts importer.Options, logger *slog.Logger, out io.Writer) error {
	report, err := importer.New(store, opts, logger).Run(ctx, src)
	if err != nil {
		return err
	}

	mode := "written"
	if opts.DryRun {
		mode = "dry run, nothing written"
	}
	fmt.Fprintf(out, "sheets: %d, matched rows: %d, rows written: %d (%s)\n",
		report.Files, report.Matched, report.Written, mode)
	if len(report.Skipped) > 0 {
		fmt.Fprintf(out, "skipped: %s\n", strings.Join(report.Skipped, ", "))
	}
	return nil
}
