package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Eik-Lab/studieveileder/internal/firebase"
)

// Uploader stores one object.
type Uploader interface {
	UploadFile(ctx context.Context, objectPath string, data []byte) error
}

func newUploadSheetCommand(e *env) *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "upload-sheet FILE...",
		Short: "Upload grade sheets to the Firebase Storage bucket",
		Long: `Upload local grade sheets into the grades folder of the configured
Firebase Storage bucket so import-grades --from-bucket can read them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if folder == "" {
				folder = e.cfg.Storage.GradesFolder
			}

			app, err := firebase.NewApp(ctx, e.cfg.Storage)
			if err != nil {
				return err
			}
			bucket, err := firebase.NewCloudStorage(ctx, app, e.cfg.Storage.Bucket, e.log)
			if err != nil {
				return err
			}

			for _, file := range args {
				objectPath, err := uploadSheet(ctx, bucket, folder, file)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s -> %s\n", file, objectPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Bucket folder to upload into (default: storage.grades_folder)")

	return cmd
}

func uploadSheet(ctx context.Context, up Uploader, folder, file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}

	objectPath := path.Join(folder, filepath.Base(file))
	if err := up.UploadFile(ctx, objectPath, data); err != nil {
		return "", err
	}
	return objectPath, nil
}
