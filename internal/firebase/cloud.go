// Package firebase stores grade sheets in a Firebase Storage bucket so the
// importer can run anywhere without a local copy.
package firebase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"slices"
	"strings"

	goStorage "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

// maxDownloads bounds concurrent object reads.
const maxDownloads = 5

type CloudStorage struct {
	*storage.Client
	bucketName string
	log        *slog.Logger
}

func NewCloudStorage(ctx context.Context, app *firebase.App, bucketName string, logger *slog.Logger) (*CloudStorage, error) {
	if strings.TrimSpace(bucketName) == "" {
		return nil, errors.New("storage bucket name is required")
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	return &CloudStorage{
		Client:     client,
		bucketName: bucketName,
		log:        logger.With("adapter", "firebase-storage"),
	}, nil
}

func (s *CloudStorage) bucket() (*goStorage.BucketHandle, error) {
	bucket, err := s.Bucket(s.bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage bucket '%s': %w", s.bucketName, err)
	}
	return bucket, nil
}

// UploadFile writes data to objectPath with a detected content type.
func (s *CloudStorage) UploadFile(ctx context.Context, objectPath string, data []byte) error {
	if err := validateUpload(objectPath, data); err != nil {
		return fmt.Errorf("upload validation failed: %w", err)
	}

	bucket, err := s.bucket()
	if err != nil {
		return err
	}

	writer := bucket.Object(objectPath).NewWriter(ctx)
	writer.ObjectAttrs.ContentType = detectContentType(objectPath)
	writer.ObjectAttrs.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": uuid.New().String(),
	}

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to upload file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload of %s: %w", objectPath, err)
	}

	s.log.InfoContext(ctx, "uploaded", slog.String("object", objectPath), slog.Int("bytes", len(data)))
	return nil
}

// DownloadSheets reads every object under folder, at most maxDownloads at a
// time, and returns them ordered by name. Any failed read fails the batch.
func (s *CloudStorage) DownloadSheets(ctx context.Context, folder string) ([]types.SheetFile, error) {
	bucket, err := s.bucket()
	if err != nil {
		return nil, err
	}

	var names []string
	objects := bucket.Objects(ctx, &goStorage.Query{Prefix: folder})
	for {
		object, err := objects.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate objects: %w", err)
		}

		// Skip directory placeholders
		if strings.HasSuffix(object.Name, "/") {
			continue
		}
		names = append(names, object.Name)
	}

	if len(names) == 0 {
		s.log.WarnContext(ctx, "no files found in folder", slog.String("folder", folder))
		return nil, nil
	}

	s.log.InfoContext(ctx, "downloading sheets", slog.Int("files", len(names)), slog.String("folder", folder))

	sheets := make([]types.SheetFile, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDownloads)

	for i, name := range names {
		g.Go(func() error {
			data, err := readObject(gctx, bucket, name)
			if err != nil {
				return fmt.Errorf("failed to download %s: %w", name, err)
			}
			sheets[i] = types.SheetFile{Name: sheetName(name, folder), Data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(sheets, func(a, b types.SheetFile) int { return strings.Compare(a.Name, b.Name) })
	return sheets, nil
}

func readObject(ctx context.Context, bucket *goStorage.BucketHandle, name string) ([]byte, error) {
	reader, err := bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object data: %w", err)
	}
	return data, nil
}

// sheetName strips the folder prefix from an object name.
func sheetName(objectName, folder string) string {
	rel := strings.TrimPrefix(objectName, folder)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return path.Base(objectName)
	}
	return rel
}

// validateUpload performs input validation for file uploads
func validateUpload(objectPath string, data []byte) error {
	if strings.TrimSpace(objectPath) == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	if len(data) == 0 {
		return fmt.Errorf("file data cannot be empty")
	}

	if strings.Contains(objectPath, "..") || strings.Contains(objectPath, "//") {
		return fmt.Errorf("invalid file path: contains unsafe characters")
	}

	return nil
}

func detectContentType(objectPath string) string {
	ext := strings.ToLower(filepath.Ext(objectPath))

	switch ext {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
