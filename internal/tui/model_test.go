package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/storage"
)

// Thursday 2025-10-09 15:00 UTC: after the Thursday morning pantry closes.
var thursdayAfternoon = time.Date(2025, time.October, 9, 15, 0, 0, 0, time.UTC)

func sampleLocation(name, schedule string) models.Location {
	return models.Location{
		Name:        name,
		Type:        "Food Pantry",
		Address:     name + " Rd, Newnan, GA 30263",
		City:        "Newnan",
		State:       "GA",
		Zip:         "30263",
		County:      "Coweta",
		Description: "Groceries",
		Schedule:    schedule,
		Website:     "https://example.org",
	}
}

func setupModel(t *testing.T, locs ...models.Location) (Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locations.json")
	if err := storage.WriteDocument(path, storage.Document{Locations: locs}); err != nil {
		t.Fatalf("WriteDocument() failed: %v", err)
	}
	store := storage.NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	m := NewModel(store, time.UTC)
	m.now = func() time.Time { return thursdayAfternoon }
	m.refresh()
	return m, path
}

func defaultLocations() []models.Location {
	return []models.Location{
		sampleLocation("Community Fridge", "24/7"),
		sampleLocation("Morning Pantry", "Thursdays, 9 am - 12 pm"),
		sampleLocation("Church Pantry", "By appointment only"),
	}
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", updated)
	}
	return next
}

func TestModel_InitialStatuses(t *testing.T) {
	m, _ := setupModel(t, defaultLocations()...)

	results := m.list.Results()
	if len(results) != 3 {
		t.Fatalf("shown = %d, want 3", len(results))
	}

	want := map[string]models.Status{
		"Community Fridge": models.StatusOpen,
		"Morning Pantry":   models.StatusClosed,
		"Church Pantry":    models.StatusIndeterminate,
	}
	for _, r := range results {
		if r.Status != want[r.Location.Name] {
			t.Errorf("%s status = %v, want %v", r.Location.Name, r.Status, want[r.Location.Name])
		}
	}
}

func TestModel_ToggleOpenNow(t *testing.T) {
	m, _ := setupModel(t, defaultLocations()...)

	m = press(t, m, "o")
	if !m.openOnly {
		t.Fatal("openOnly should be set after 'o'")
	}
	results := m.list.Results()
	if len(results) != 1 || results[0].Location.Name != "Community Fridge" {
		t.Errorf("open-now results = %+v, want only Community Fridge", results)
	}

	m = press(t, m, "o")
	if m.openOnly || len(m.list.Results()) != 3 {
		t.Errorf("after second 'o': openOnly = %v, shown = %d", m.openOnly, len(m.list.Results()))
	}
}

func TestModel_TickReevaluates(t *testing.T) {
	m, _ := setupModel(t, defaultLocations()...)
	m = press(t, m, "o")

	// Thursday 10:00 puts the morning pantry inside its window.
	m.now = func() time.Time { return time.Date(2025, time.October, 9, 10, 0, 0, 0, time.UTC) }
	updated, cmd := m.Update(tickMsg(m.now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	m = updated.(Model)

	if got := len(m.list.Results()); got != 2 {
		t.Errorf("open after tick = %d, want 2", got)
	}
}

func TestModel_HidesInactive(t *testing.T) {
	locs := defaultLocations()
	locs[0].SetActive(false)
	m, _ := setupModel(t, locs...)

	if got := len(m.list.Results()); got != 2 {
		t.Errorf("shown = %d, want 2", got)
	}
}

func TestModel_KeysIgnoredWhileFiltering(t *testing.T) {
	m, _ := setupModel(t, defaultLocations()...)

	m = press(t, m, "/")
	if !m.list.Filtering() {
		t.Fatal("'/' should start filtering")
	}
	m = press(t, m, "o")
	if m.openOnly {
		t.Error("'o' typed into the search box toggled the filter")
	}
	m = press(t, m, "q")
	if m.quitting {
		t.Error("'q' typed into the search box quit")
	}
}

func TestModel_RefreshPicksUpEdits(t *testing.T) {
	m, path := setupModel(t, defaultLocations()...)

	locs := append(defaultLocations(), sampleLocation("Soup Kitchen", "Daily 11am-1pm"))
	if err := storage.WriteDocument(path, storage.Document{Locations: locs}); err != nil {
		t.Fatalf("WriteDocument() failed: %v", err)
	}

	m = press(t, m, "r")
	if got := len(m.list.Results()); got != 4 {
		t.Errorf("shown after refresh = %d, want 4", got)
	}
	if m.statusMsg != "Loaded 4 locations" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestModel_AddFormOpensAndCancels(t *testing.T) {
	m, _ := setupModel(t, defaultLocations()...)

	m = press(t, m, "a")
	if m.state != StateAdding || m.form == nil {
		t.Fatalf("state = %v, want StateAdding with a form", m.state)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.state != StateList {
		t.Errorf("state after esc = %v, want StateList", m.state)
	}
}

func TestModel_ValidationWarning(t *testing.T) {
	locs := defaultLocations()
	locs[1].Website = ""
	m, _ := setupModel(t, locs...)

	if m.validationWarning == "" {
		t.Error("expected a data warning for the missing website")
	}

	clean, _ := setupModel(t, defaultLocations()...)
	if clean.validationWarning != "" {
		t.Errorf("unexpected warning %q", clean.validationWarning)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := setupModel(t, defaultLocations()...)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected tea.Quit")
	}
	if !updated.(Model).quitting {
		t.Error("quitting should be set")
	}
	if updated.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}
