package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrDisabled is returned when no image host is configured.
var ErrDisabled = errors.New("image uploads are not configured")

type Uploader interface {
	UploadImage(ctx context.Context, file io.Reader, publicID string) (string, error)
	DeleteImage(ctx context.Context, publicID string) error
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// UploadImage stores the image under the configured folder and returns its
// secure delivery URL.
func (u *CloudinaryUploader) UploadImage(ctx context.Context, file io.Reader, publicID string) (string, error) {
	unique := true
	overwrite := true
	params := uploader.UploadParams{
		Folder:         u.folder,
		ResourceType:   "image",
		UniqueFilename: &unique,
		Overwrite:      &overwrite,
	}
	if publicID != "" {
		params.PublicID = publicID
	}

	result, err := u.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", errors.New("upload successful but no URL returned")
	}
	return result.SecureURL, nil
}

func (u *CloudinaryUploader) DeleteImage(ctx context.Context, publicID string) error {
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: u.folder + "/" + publicID,
	})
	return err
}

// Disabled rejects every upload. Products keep whatever image URL they were
// given in the form.
type Disabled struct{}

func (Disabled) UploadImage(context.Context, io.Reader, string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) DeleteImage(context.Context, string) error { return nil }
