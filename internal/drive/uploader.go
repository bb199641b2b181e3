package drive

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"inventory_viewer/internal/config"
	"inventory_viewer/internal/retry"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// UploadResult holds the identifier of a stored image and the links derived from it.
type UploadResult struct {
	FileID        string
	WebViewLink   string
	ThumbnailLink string
	// DriveLink is the form written into attachment cells; it embeds id=<FileID>.
	DriveLink string
}

func newUploadResult(fileID string) *UploadResult {
	return &UploadResult{
		FileID:        fileID,
		WebViewLink:   fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID),
		ThumbnailLink: fmt.Sprintf("https://lh3.googleusercontent.com/d/%s=s200", fileID),
		DriveLink:     fmt.Sprintf("https://drive.google.com/open?id=%s", fileID),
	}
}

type fileStore interface {
	create(ctx context.Context, meta *drive.File, media io.Reader, contentType string) (string, error)
	shareWithAnyone(ctx context.Context, fileID string) error
}

type serviceStore struct {
	service *drive.Service
}

func (s serviceStore) create(ctx context.Context, meta *drive.File, media io.Reader, contentType string) (string, error) {
	created, err := s.service.Files.Create(meta).
		Media(media, googleapi.ContentType(contentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (s serviceStore) shareWithAnyone(ctx context.Context, fileID string) error {
	_, err := s.service.Permissions.Create(fileID, &drive.Permission{
		Role: "reader",
		Type: "anyone",
	}).Context(ctx).Do()
	return err
}

// Uploader stores attachment images in one folder.
type Uploader struct {
	store      fileStore
	folderID   string
	resilience config.ResilienceConfig
	now        func() time.Time
}

func NewUploader(ctx context.Context, folderID string, opts ...option.ClientOption) (*Uploader, error) {
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return newUploader(serviceStore{service: service}, folderID), nil
}

func newUploader(store fileStore, folderID string) *Uploader {
	return &Uploader{
		store:      store,
		folderID:   folderID,
		resilience: config.DefaultResilienceConfig,
		now:        time.Now,
	}
}

// Upload stores the image as a multipart upload and then makes it viewable by anyone with the link.
// The sharing step is best effort: if it fails the upload still counts as done.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, media io.Reader) (*UploadResult, error) {
	meta := &drive.File{
		Name:     fmt.Sprintf("%d_%s", u.now().UnixMilli(), filepath.Base(filename)),
		MimeType: contentType,
		Parents:  []string{u.folderID},
	}

	log.Debug().
		Str("name", meta.Name).
		Str("mime_type", contentType).
		Str("folder", u.folderID).
		Msg("Uploading attachment")

	fileID, err := retry.WithRetry(ctx, u.resilience.DriveUpload, func(ctx context.Context) (string, error) {
		return u.store.create(ctx, meta, media, contentType)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	err = retry.Do(ctx, u.resilience.DrivePermission, func(ctx context.Context) error {
		return u.store.shareWithAnyone(ctx, fileID)
	})
	if err != nil {
		log.Warn().Err(err).Str("file_id", fileID).Msg("Failed to set file permissions, but upload succeeded")
	}

	log.Info().Str("file_id", fileID).Str("name", meta.Name).Msg("Uploaded attachment")
	return newUploadResult(fileID), nil
}
