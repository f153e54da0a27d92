package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/storage"
)

// Object storage folders
const (
	folderResumes       = "resumes"
	folderProfilePhotos = "profile-photos"
	folderCompanyLogos  = "company-logos"
)

// uploader validates attachments and stores them. Images are downscaled to
// JPEG before upload.
type uploader struct {
	storage  domain.FileStorage
	maxBytes int
}

func newUploader(store domain.FileStorage, maxBytes int) uploader {
	return uploader{storage: store, maxBytes: maxBytes}
}

func (u uploader) store(ctx context.Context, kind security.FileKind, folder, ownerID string, file *domain.Upload) (string, error) {
	if u.storage == nil {
		return "", apperror.ServiceUnavailable("File uploads are not available right now")
	}
	if len(file.Data) == 0 {
		return "", apperror.BadRequest("Uploaded file is empty")
	}
	if u.maxBytes > 0 && len(file.Data) > u.maxBytes {
		return "", apperror.BadRequest(fmt.Sprintf("File exceeds the %d MB limit", u.maxBytes>>20))
	}

	result := security.ValidateFile(kind, file.Filename, file.Data)
	if !result.Valid {
		security.DefaultLogger().LogUploadRejected(ctx, ownerID, file.Filename, result.Error)
		return "", apperror.BadRequest("Invalid file: " + result.Error)
	}

	data, ext := file.Data, result.Extension
	if security.IsImageExtension(ext) {
		compressed, err := storage.CompressImage(data, storage.MaxImageDimension, storage.JPEGQuality)
		if err != nil {
			return "", apperror.BadRequest("Image could not be processed")
		}
		data, ext = compressed, ".jpg"
	}

	name := filepath.Base(file.Filename)
	url, err := u.storage.Upload(ctx, storage.ObjectKey(folder, ownerID, name, ext), data, security.ContentTypeFor(ext))
	if err != nil {
		return "", apperror.Internal(err)
	}
	return url, nil
}
