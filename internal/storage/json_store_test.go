package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/feedingfoundation/locator/internal/models"
)

func newLocation(name, address string) models.Location {
	return models.Location{
		Name:     name,
		Type:     "Food Pantry",
		Address:  address,
		City:     "Newnan",
		State:    "GA",
		Zip:      "30263",
		County:   "Coweta",
		Schedule: "Thursdays, 9 am - 12 pm",
	}
}

func setupJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	s := NewJSONStore(filepath.Join(t.TempDir(), "locations.json"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return s
}

func TestJSONStore_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "locations.json")
	s := NewJSONStore(path)

	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading store: %v", err)
	}
	if !strings.Contains(string(data), `"locations": []`) {
		t.Errorf("fresh store = %s", data)
	}

	if err := NewJSONStore(path).Init(); err == nil {
		t.Error("second Init() should fail")
	}
}

func TestJSONStore_LoadMissing(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "locations.json"))
	err := s.Load()
	if err == nil || !strings.Contains(err.Error(), "locator init") {
		t.Errorf("Load() error = %v, want init hint", err)
	}
}

func TestJSONStore_LoadRejectsMissingArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	if err := os.WriteFile(path, []byte(`{"sites": []}`), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewJSONStore(path).Load(); err == nil || !strings.Contains(err.Error(), `"locations"`) {
		t.Errorf("Load() error = %v", err)
	}
}

func TestJSONStore_LoadBackfillsIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	legacy := `{
  "locations": [
    {"name": "Grace Pantry", "address": "1 Main St", "schedule": "24/7", "lat": null, "lng": null},
    {"id": "keep-me", "name": "Mercy Closet", "address": "2 Main St", "active": false, "lat": 33.1, "lng": -84.2}
  ]
}`
	if err := os.WriteFile(path, []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewJSONStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	all, _ := s.GetAllLocations()
	if len(all) != 2 {
		t.Fatalf("got %d locations, want 2", len(all))
	}
	if all[0].ID == "" {
		t.Error("missing ID was not back-filled")
	}
	if all[1].ID != "keep-me" {
		t.Errorf("existing ID changed to %q", all[1].ID)
	}
	if !all[0].IsActive() || all[1].IsActive() {
		t.Errorf("active flags = %v, %v", all[0].IsActive(), all[1].IsActive())
	}

	// The back-filled ID is written back and stays stable.
	again := NewJSONStore(path)
	if err := again.Load(); err != nil {
		t.Fatalf("second Load() failed: %v", err)
	}
	reloaded, _ := again.GetAllLocations()
	if reloaded[0].ID != all[0].ID {
		t.Errorf("ID changed across loads: %q then %q", all[0].ID, reloaded[0].ID)
	}
}

func TestJSONStore_CRUD(t *testing.T) {
	s := setupJSONStore(t)

	added, err := s.AddLocation(newLocation("Grace Pantry", "1 Main St"))
	if err != nil {
		t.Fatalf("AddLocation() failed: %v", err)
	}
	if added.ID == "" || !added.IsActive() {
		t.Errorf("AddLocation() = %+v, want ID and active default", added)
	}

	if _, err := s.AddLocation(newLocation(" grace pantry ", "1 MAIN ST")); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate AddLocation() error = %v", err)
	}

	second, _ := s.AddLocation(newLocation("Mercy Closet", "2 Main St"))

	second.Phone = "770-555-0100"
	if err := s.UpdateLocation(second); err != nil {
		t.Fatalf("UpdateLocation() failed: %v", err)
	}
	got, err := s.GetLocation(second.ID)
	if err != nil || got.Phone != "770-555-0100" {
		t.Errorf("GetLocation() = %+v, %v", got, err)
	}

	clash := second
	clash.Name, clash.Address = "Grace Pantry", "1 Main St"
	if err := s.UpdateLocation(clash); !errors.Is(err, ErrDuplicate) {
		t.Errorf("clashing UpdateLocation() error = %v", err)
	}

	if err := s.DeleteLocation(added.ID); err != nil {
		t.Fatalf("DeleteLocation() failed: %v", err)
	}
	if _, err := s.GetLocation(added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLocation() after delete error = %v", err)
	}
	if err := s.DeleteLocation(added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteLocation() error = %v", err)
	}

	reloaded := NewJSONStore(s.GetConfigPath())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	all, _ := reloaded.GetAllLocations()
	if len(all) != 1 || all[0].Name != "Mercy Closet" {
		t.Errorf("persisted locations = %+v", all)
	}
}

func TestJSONStore_ReplaceAll(t *testing.T) {
	s := setupJSONStore(t)
	if _, err := s.AddLocation(newLocation("Old", "1 Elm St")); err != nil {
		t.Fatal(err)
	}

	if err := s.ReplaceAll([]models.Location{newLocation("A", "2 Elm St"), newLocation("B", "3 Elm St")}); err != nil {
		t.Fatalf("ReplaceAll() failed: %v", err)
	}
	all, _ := s.GetAllLocations()
	if len(all) != 2 || all[0].Name != "A" || all[1].Name != "B" || all[0].ID == "" {
		t.Errorf("GetAllLocations() = %+v", all)
	}
}

func TestJSONStore_GetAllReturnsCopy(t *testing.T) {
	s := setupJSONStore(t)
	if _, err := s.AddLocation(newLocation("Grace Pantry", "1 Main St")); err != nil {
		t.Fatal(err)
	}

	all, _ := s.GetAllLocations()
	all[0].Name = "mutated"

	again, _ := s.GetAllLocations()
	if again[0].Name != "Grace Pantry" {
		t.Error("GetAllLocations() exposed internal state")
	}
}

func TestJSONStore_NotLoaded(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "locations.json"))
	if _, err := s.GetAllLocations(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("GetAllLocations() error = %v", err)
	}
	if _, err := s.AddLocation(newLocation("A", "B")); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("AddLocation() error = %v", err)
	}
}

func TestJSONStore_ConcurrentReads(t *testing.T) {
	s := setupJSONStore(t)
	for _, n := range []string{"A", "B", "C"} {
		if _, err := s.AddLocation(newLocation(n, n+" St")); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if all, err := s.GetAllLocations(); err != nil || len(all) != 3 {
					t.Errorf("GetAllLocations() = %d, %v", len(all), err)
				}
			}
		}()
	}
	wg.Wait()
}

func TestWriteDocumentFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteDocument(path, Document{Locations: []models.Location{newLocation("Grace Pantry", "1 Main St")}}); err != nil {
		t.Fatalf("WriteDocument() failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	text := string(data)

	if !strings.HasPrefix(text, "{\n  \"locations\": [\n    {") {
		t.Errorf("unexpected indentation:\n%s", text)
	}
	if !strings.Contains(text, `"lat": null`) {
		t.Errorf("missing coordinates should be written as null:\n%s", text)
	}
}

func TestJSONStore_ReloadPicksUpExternalEdits(t *testing.T) {
	s := setupJSONStore(t)
	if _, err := s.AddLocation(newLocation("Pantry A", "1 Main St")); err != nil {
		t.Fatalf("AddLocation() failed: %v", err)
	}

	other := NewJSONStore(s.GetConfigPath())
	if err := other.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if _, err := other.AddLocation(newLocation("Pantry B", "2 Main St")); err != nil {
		t.Fatalf("AddLocation() failed: %v", err)
	}

	var r Reloader = s
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	locs, _ := s.GetAllLocations()
	if len(locs) != 2 {
		t.Errorf("after Reload() got %d locations, want 2", len(locs))
	}
}
