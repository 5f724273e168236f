package helpers

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const EventsFolder = "events"

// ImageStore re-hosts images and removes them again.
type ImageStore interface {
	Upload(ctx context.Context, source, folder string) (url, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{cld: cld}
}

// Upload copies source (a remote URL or data URI) into folder and returns the
// secure URL of the hosted copy.
func (cs *CloudinaryStore) Upload(ctx context.Context, source, folder string) (string, string, error) {
	if strings.TrimSpace(source) == "" {
		return "", "", fmt.Errorf("empty image source")
	}

	res, err := cs.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"eventradar"},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", "", fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}
	return res.SecureURL, res.PublicID, nil
}

func (cs *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if _, err := cs.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	return nil
}
