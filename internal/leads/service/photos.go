package service

import (
	"bytes"
	"context"
	"io"

	"cleardoor_backend/platform/apperr"
	"cleardoor_backend/platform/exifloc"

	"github.com/google/uuid"
)

// PhotoUpload is the result of a door photo upload. When the photo
// carries an EXIF geotag the coordinates are returned so the capture
// form can use them as the site visit location fallback.
type PhotoUpload struct {
	Reference string
	Latitude  *float64
	Longitude *float64
}

// UploadDoorPhoto stores a door photo for the lead and returns its
// storage reference plus any embedded GPS position.
func (s *Service) UploadDoorPhoto(ctx context.Context, leadID uuid.UUID, fileName, contentType string, r io.Reader) (PhotoUpload, error) {
	if s.storage == nil {
		return PhotoUpload{}, apperr.Precondition("photo storage is not configured")
	}

	if _, err := s.store.GetLeadByID(ctx, leadID); err != nil {
		return PhotoUpload{}, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return PhotoUpload{}, apperr.Wrap(apperr.KindInternal, "failed to read photo upload", err)
	}
	if len(content) == 0 {
		return PhotoUpload{}, apperr.BadRequest("photo upload is empty")
	}

	upload := PhotoUpload{}
	if geo := exifloc.FromPhoto(bytes.NewReader(content)); geo != nil {
		upload.Latitude = &geo.Latitude
		upload.Longitude = &geo.Longitude
	}

	key, err := s.storage.UploadFile(ctx, s.bucket, leadID.String(), fileName, contentType, bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return PhotoUpload{}, apperr.Wrap(apperr.KindInternal, "failed to store photo", err)
	}
	upload.Reference = key

	return upload, nil
}
