package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dowan1041/ocie-helper/internal/model"
)

const equipmentColumns = `id, lin, nomenclature, partial_nsn, another_name, size, image, created_at`

// beforeInsert runs between the duplicate check and the write. Tests use it
// to interleave a second insert into the window.
var beforeInsert func()

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEquipment(s rowScanner) (*model.Equipment, error) {
	var (
		e         model.Equipment
		lin       string
		image     sql.NullString
		createdAt string
	)
	if err := s.Scan(&e.ID, &lin, &e.Nomenclature, &e.PartialNSN, &e.AnotherName, &e.Size, &image, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(lin), &e.LIN); err != nil {
		return nil, fmt.Errorf("decoding lin of %s: %w", e.ID, err)
	}
	if image.Valid && image.String != "" {
		e.Image = &image.String
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of %s: %w", e.ID, err)
	}
	e.CreatedAt = t
	return &e, nil
}

// ListEquipment returns every stored record in insertion order.
func ListEquipment(ctx context.Context, db *sql.DB) ([]model.Equipment, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+equipmentColumns+` FROM equipment ORDER BY rowid`)
	if err != nil {
		return nil, &model.StoreError{Op: "listing equipment", Err: err}
	}
	defer rows.Close()

	var items []model.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, &model.StoreError{Op: "reading equipment", Err: err}
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StoreError{Op: "listing equipment", Err: err}
	}
	return items, nil
}

// GetEquipmentByNSN returns the first record with the given partial NSN, or
// nil if there is none.
func GetEquipmentByNSN(ctx context.Context, db *sql.DB, nsn string) (*model.Equipment, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+equipmentColumns+` FROM equipment WHERE partial_nsn = ? ORDER BY rowid LIMIT 1`, nsn,
	)
	e, err := scanEquipment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &model.StoreError{Op: "looking up equipment", Err: err}
	}
	return e, nil
}

// CountEquipment returns the number of stored records.
func CountEquipment(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment`).Scan(&n); err != nil {
		return 0, &model.StoreError{Op: "counting equipment", Err: err}
	}
	return n, nil
}

// InsertEquipmentIfUnique stores a normalized record under a new id unless a
// record with the same partial NSN already exists.
//
// The check and the write are separate statements: two concurrent inserts
// of the same code can both pass the check and both be stored.
func InsertEquipmentIfUnique(ctx context.Context, db *sql.DB, e *model.Equipment) (*model.Equipment, error) {
	existing, err := GetEquipmentByNSN(ctx, db, e.PartialNSN)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrDuplicate
	}

	if beforeInsert != nil {
		beforeInsert()
	}

	rec := *e
	rec.ID = uuid.NewString()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	lin, err := json.Marshal(rec.LIN)
	if err != nil {
		return nil, fmt.Errorf("encoding lin: %w", err)
	}
	var image sql.NullString
	if rec.Image != nil {
		image = sql.NullString{String: *rec.Image, Valid: true}
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO equipment (`+equipmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(lin), rec.Nomenclature, rec.PartialNSN, rec.AnotherName, rec.Size, image,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, &model.StoreError{Op: "inserting equipment", Err: err}
	}
	return &rec, nil
}
