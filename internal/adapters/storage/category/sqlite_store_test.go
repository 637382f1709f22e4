package category_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	store "clubhouse/internal/adapters/storage/category"
	"clubhouse/internal/adapters/storage/storagetest"
	domain "clubhouse/internal/domain/category"
)

// TestSQLiteStore_SaveAndGet tests insert, update and nullable columns.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := store.NewSQLiteStore(storagetest.OpenDB(t))
	ctx := context.Background()

	c := domain.Category{ID: "u12", Name: "U12 boys", SortOrder: 2, Active: true}
	if err := s.Save(ctx, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.GetByID(ctx, "u12")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got != c {
		t.Errorf("GetByID() = %+v, want %+v", got, c)
	}

	c.Description = "Under twelve"
	c.Active = false
	if err := s.Save(ctx, c); err != nil {
		t.Fatalf("Save(update) error = %v", err)
	}
	got, _ = s.GetByID(ctx, "u12")
	if got.Description != "Under twelve" || got.Active {
		t.Errorf("update not applied: %+v", got)
	}

	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID(missing) error = %v, want sql.ErrNoRows", err)
	}
}

// TestSQLiteStore_GetByName tests the case-insensitive name lookup.
func TestSQLiteStore_GetByName(t *testing.T) {
	s := store.NewSQLiteStore(storagetest.OpenDB(t))
	ctx := context.Background()
	s.Save(ctx, domain.Category{ID: "u12", Name: "U12 Boys", Active: true})

	got, err := s.GetByName(ctx, "u12 boys")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got.ID != "u12" {
		t.Errorf("GetByName() = %s, want u12", got.ID)
	}
	if _, err := s.GetByName(ctx, "U14"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByName(missing) error = %v, want sql.ErrNoRows", err)
	}
}

// TestSQLiteStore_List tests ordering and the active filter.
func TestSQLiteStore_List(t *testing.T) {
	s := store.NewSQLiteStore(storagetest.OpenDB(t))
	ctx := context.Background()
	for _, c := range []domain.Category{
		{ID: "u14", Name: "U14", SortOrder: 2, Active: true},
		{ID: "u10", Name: "U10", SortOrder: 1, Active: false},
		{ID: "u12", Name: "U12", SortOrder: 1, Active: true},
	} {
		if err := s.Save(ctx, c); err != nil {
			t.Fatalf("Save(%s) error = %v", c.ID, err)
		}
	}

	all, err := s.List(ctx, false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 || all[0].ID != "u10" || all[1].ID != "u12" || all[2].ID != "u14" {
		t.Errorf("List(false) order = %v", ids(all))
	}

	active, _ := s.List(ctx, true)
	if len(active) != 2 || active[0].ID != "u12" {
		t.Errorf("List(true) = %v, want [u12 u14]", ids(active))
	}
}

func ids(cs []domain.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
