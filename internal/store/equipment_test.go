package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dowan1041/ocie-helper/internal/db"
	"github.com/dowan1041/ocie-helper/internal/model"
)

func newRecord(nsn, name string) *model.Equipment {
	return &model.Equipment{
		LIN:          []string{"DA150J", "B14729"},
		Nomenclature: name,
		PartialNSN:   nsn,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC),
	}
}

func TestInsertAndListEquipment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	image := "https://example.test/equipment/8465.jpg"
	rec := newRecord("8465", "BAG,DUFFEL")
	rec.Image = &image
	rec.AnotherName = "Duffel"

	first, err := InsertEquipmentIfUnique(ctx, database, rec)
	if err != nil {
		t.Fatalf("InsertEquipmentIfUnique: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected store-assigned id")
	}
	if rec.ID != "" {
		t.Error("input record must not be mutated")
	}

	second, err := InsertEquipmentIfUnique(ctx, database, newRecord("0001", "CANTEEN"))
	if err != nil {
		t.Fatalf("InsertEquipmentIfUnique: %v", err)
	}

	items, err := ListEquipment(ctx, database)
	if err != nil {
		t.Fatalf("ListEquipment: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Errorf("expected insertion order, got %s, %s", items[0].ID, items[1].ID)
	}

	got := items[0]
	if len(got.LIN) != 2 || got.LIN[1] != "B14729" {
		t.Errorf("unexpected LIN %q", got.LIN)
	}
	if got.Image == nil || *got.Image != image {
		t.Errorf("expected image %q, got %v", image, got.Image)
	}
	if got.AnotherName != "Duffel" {
		t.Errorf("expected another name 'Duffel', got %q", got.AnotherName)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", rec.CreatedAt, got.CreatedAt)
	}
	if items[1].Image != nil {
		t.Errorf("expected nil image, got %q", *items[1].Image)
	}
}

func TestInsertDuplicateNSN(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := InsertEquipmentIfUnique(ctx, database, newRecord("1234", "TENT")); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	_, err := InsertEquipmentIfUnique(ctx, database, newRecord("1234", "TENT, OTHER"))
	if !errors.Is(err, model.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	n, _ := CountEquipment(ctx, database)
	if n != 1 {
		t.Errorf("expected 1 record, got %d", n)
	}
}

// The duplicate check is read-then-write. A second insert landing between
// the check and the write is not detected, and both records are kept.
func TestInsertRaceWindowKeepsBothRecords(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	var innerErr error
	fired := false
	beforeInsert = func() {
		if fired {
			return
		}
		fired = true
		_, innerErr = InsertEquipmentIfUnique(ctx, database, newRecord("4321", "RACER B"))
	}
	t.Cleanup(func() { beforeInsert = nil })

	if _, err := InsertEquipmentIfUnique(ctx, database, newRecord("4321", "RACER A")); err != nil {
		t.Fatalf("outer insert: %v", err)
	}
	if innerErr != nil {
		t.Fatalf("inner insert: %v", innerErr)
	}

	items, err := ListEquipment(ctx, database)
	if err != nil {
		t.Fatalf("ListEquipment: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected both racing records to be stored, got %d", len(items))
	}
	if items[0].ID == items[1].ID {
		t.Error("expected distinct ids")
	}
}

func TestGetEquipmentByNSNMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetEquipmentByNSN(context.Background(), database, "9999")
	if err != nil {
		t.Fatalf("GetEquipmentByNSN: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestListEquipmentStoreError(t *testing.T) {
	database := db.NewTestDB(t)
	database.Close()

	_, err := ListEquipment(context.Background(), database)
	var se *model.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}
