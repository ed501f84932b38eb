package cloudinary

import (
	"context"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"comercio-backend/config"
)

type Uploader struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewUploader(cfg config.CloudinaryConfig, folder string) (*Uploader, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	return &Uploader{client: client, folder: folder}, nil
}

// Upload pushes a multipart file to Cloudinary and returns the delivery URL.
func (u *Uploader) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	resp, err := u.client.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         u.folder,
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

func (u *Uploader) Delete(ctx context.Context, publicID string) error {
	_, err := u.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}
