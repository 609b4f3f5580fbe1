package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "locator.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func pantry(name, address string) models.Location {
	lat, lng := 33.38, -84.79
	return models.Location{
		Name:     name,
		Type:     "Food Pantry",
		Address:  address,
		City:     "Newnan",
		State:    "GA",
		Zip:      "30263",
		County:   "Coweta",
		Schedule: "Wed 10am-2pm",
		Lat:      &lat,
		Lng:      &lng,
	}
}

func TestStore_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "locator.db")

	if err := NewStore(path).Load(); err == nil {
		t.Fatal("Load() before Init() should fail")
	}

	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	added, err := s.AddLocation(pantry("Grace Pantry", "1 Main St"))
	if err != nil {
		t.Fatalf("AddLocation() failed: %v", err)
	}
	s.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetLocation(added.ID)
	if err != nil {
		t.Fatalf("GetLocation() failed: %v", err)
	}
	if got.Name != "Grace Pantry" || !got.IsActive() || !got.HasCoordinates() || *got.Lat != 33.38 {
		t.Errorf("GetLocation() = %+v", got)
	}
	if reopened.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q", reopened.GetConfigPath())
	}
}

func TestStore_AddDuplicate(t *testing.T) {
	s := setupStore(t)

	if _, err := s.AddLocation(pantry("Grace Pantry", "1 Main St")); err != nil {
		t.Fatalf("AddLocation() failed: %v", err)
	}
	_, err := s.AddLocation(pantry("GRACE PANTRY", "1 main st"))
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("AddLocation() duplicate error = %v, want ErrDuplicate", err)
	}
}

func TestStore_OrderUpdateDelete(t *testing.T) {
	s := setupStore(t)

	names := []string{"Zion Kitchen", "Abundant Harvest", "Mercy Closet"}
	var ids []string
	for i, n := range names {
		loc, err := s.AddLocation(pantry(n, string(rune('1'+i))+" Church St"))
		if err != nil {
			t.Fatalf("AddLocation(%s) failed: %v", n, err)
		}
		ids = append(ids, loc.ID)
	}

	all, err := s.GetAllLocations()
	if err != nil {
		t.Fatalf("GetAllLocations() failed: %v", err)
	}
	for i, loc := range all {
		if loc.Name != names[i] {
			t.Errorf("position %d = %s, want %s", i, loc.Name, names[i])
		}
	}

	updated := all[1]
	updated.SetActive(false)
	updated.Lat, updated.Lng = nil, nil
	if err := s.UpdateLocation(updated); err != nil {
		t.Fatalf("UpdateLocation() failed: %v", err)
	}
	got, _ := s.GetLocation(ids[1])
	if got.IsActive() || got.HasCoordinates() {
		t.Errorf("update not persisted: %+v", got)
	}

	clash := all[2]
	clash.Name, clash.Address = all[0].Name, all[0].Address
	if err := s.UpdateLocation(clash); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("UpdateLocation() clash error = %v, want ErrDuplicate", err)
	}

	if err := s.DeleteLocation(ids[0]); err != nil {
		t.Fatalf("DeleteLocation() failed: %v", err)
	}
	if _, err := s.GetLocation(ids[0]); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetLocation() after delete error = %v", err)
	}
	if err := s.DeleteLocation(ids[0]); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteLocation() error = %v", err)
	}

	missing := pantry("Ghost", "0 Nowhere")
	missing.ID = "missing"
	if err := s.UpdateLocation(missing); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateLocation() missing error = %v", err)
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	s := setupStore(t)
	if _, err := s.AddLocation(pantry("Old", "1 Elm St")); err != nil {
		t.Fatalf("AddLocation() failed: %v", err)
	}

	replacement := []models.Location{pantry("New A", "2 Elm St"), pantry("New B", "3 Elm St")}
	if err := s.ReplaceAll(replacement); err != nil {
		t.Fatalf("ReplaceAll() failed: %v", err)
	}

	all, _ := s.GetAllLocations()
	if len(all) != 2 || all[0].Name != "New A" || all[1].Name != "New B" {
		t.Fatalf("GetAllLocations() = %+v", all)
	}
	for _, loc := range all {
		if loc.ID == "" {
			t.Error("ReplaceAll() left a location without an ID")
		}
	}
}

func TestStore_NotLoaded(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "x.db"))
	if _, err := s.GetAllLocations(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("GetAllLocations() before Load() error = %v", err)
	}
}
