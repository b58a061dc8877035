package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dowan1041/ocie-helper/internal/model"
	"github.com/dowan1041/ocie-helper/internal/store"
)

// ImportResult counts the outcome of an import.
type ImportResult struct {
	Total      int
	Added      int
	Duplicates int
	Failed     int
}

// Import loads a JSON array of records. Records whose image is a bare
// filename get that file uploaded from imagesDir first; a missing or
// rejected image leaves the record without one. If imagesDir is empty,
// image references are stored as given.
func (s *Service) Import(ctx context.Context, r io.Reader, imagesDir string) (*ImportResult, error) {
	var items []model.EquipmentInput
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding import file: %w", err)
	}

	existing, err := store.CountEquipment(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		slog.Warn("catalog is not empty, records with known NSNs will be skipped", "existing", existing)
	}

	res := &ImportResult{Total: len(items)}
	for i, in := range items {
		log := slog.With("item", fmt.Sprintf("%d/%d", i+1, len(items)), "nomenclature", in.Nomenclature)

		var (
			file *os.File
			img  *Image
		)
		if in.Image != nil && imagesDir != "" && !isURL(*in.Image) {
			name := filepath.Base(*in.Image)
			f, err := os.Open(filepath.Join(imagesDir, name))
			if err != nil {
				log.Warn("image not found", "image", name)
			} else {
				file = f
				img = &Image{Filename: name, Body: f}
			}
			in.Image = nil
		}

		rec, err := s.AddItem(ctx, in, img)
		if file != nil {
			file.Close()
		}

		switch {
		case err == nil:
			res.Added++
			log.Info("item imported", "id", rec.ID, "nsn", rec.PartialNSN)
		case errors.Is(err, model.ErrDuplicate):
			res.Duplicates++
			log.Warn("item skipped, NSN already exists", "nsn", in.PartialNSN)
		default:
			res.Failed++
			log.Error("item import failed", "error", err)
		}
	}
	return res, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
