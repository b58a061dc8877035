// Package catalog implements the add-item flow on top of the document and
// image stores.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dowan1041/ocie-helper/internal/blob"
	"github.com/dowan1041/ocie-helper/internal/imaging"
	"github.com/dowan1041/ocie-helper/internal/model"
	"github.com/dowan1041/ocie-helper/internal/store"
)

// Service holds the stores used by the catalog operations.
type Service struct {
	DB    *sql.DB
	Blobs blob.Store
	// Now defaults to time.Now.
	Now func() time.Time
}

// Image is an uploaded image file.
type Image struct {
	Filename string
	Body     io.Reader
}

// UploadResult describes a published image.
type UploadResult struct {
	Key string
	URL string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// List returns every record.
func (s *Service) List(ctx context.Context) ([]model.Equipment, error) {
	return store.ListEquipment(ctx, s.DB)
}

// UploadImage stores an image under "<nsn>.<ext>" and returns its public URL.
func (s *Service) UploadImage(ctx context.Context, rawNSN string, img Image) (*UploadResult, error) {
	nsn, err := model.NormalizePartialNSN(rawNSN)
	if err != nil {
		return nil, err
	}
	key, err := model.ImageKey(nsn, img.Filename)
	if err != nil {
		return nil, err
	}
	ext, _ := model.ImageExt(img.Filename)

	prepared, err := imaging.Prepare(img.Body, model.ImageTypes[ext])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnsupportedImage, err)
	}

	url, err := s.Blobs.UploadAndPublish(ctx, prepared.Data, key, prepared.MIME)
	if err != nil {
		return nil, err
	}
	return &UploadResult{Key: key, URL: url}, nil
}

// AddItem validates in, uploads img if given and stores the record.
//
// Validation and the duplicate check happen before anything is uploaded.
// A failed upload is logged and the record is stored without an image.
func (s *Service) AddItem(ctx context.Context, in model.EquipmentInput, img *Image) (*model.Equipment, error) {
	rec, err := model.NormalizeEquipment(in, s.now())
	if err != nil {
		return nil, err
	}

	existing, err := store.GetEquipmentByNSN(ctx, s.DB, rec.PartialNSN)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrDuplicate
	}

	if img != nil {
		res, err := s.UploadImage(ctx, rec.PartialNSN, *img)
		if err != nil {
			slog.Warn("image upload failed, adding item without image", "nsn", rec.PartialNSN, "error", err)
		} else {
			rec.Image = &res.URL
		}
	}

	return store.InsertEquipmentIfUnique(ctx, s.DB, rec)
}
