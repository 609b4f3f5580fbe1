package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/feedingfoundation/locator/internal/models"
)

func TestPrepare(t *testing.T) {
	loc := Prepare(models.Location{Name: "Grace Pantry"})
	if loc.ID == "" {
		t.Error("Prepare() did not assign an ID")
	}
	if !loc.IsActive() || loc.Active == nil {
		t.Error("Prepare() did not default Active to true")
	}

	kept := models.Location{ID: "abc"}
	kept.SetActive(false)
	kept = Prepare(kept)
	if kept.ID != "abc" || kept.IsActive() {
		t.Errorf("Prepare() overwrote existing values: %+v", kept)
	}
}

func TestCheckDuplicate(t *testing.T) {
	existing := []models.Location{
		{ID: "1", Name: "Grace Pantry", Address: "1 Main St"},
	}

	tests := []struct {
		name string
		loc  models.Location
		dup  bool
	}{
		{"same name and address ignoring case", models.Location{ID: "2", Name: "GRACE pantry", Address: "1 main st"}, true},
		{"same id", models.Location{ID: "1", Name: "Other", Address: "2 Main St"}, true},
		{"same name other address", models.Location{ID: "3", Name: "Grace Pantry", Address: "9 Oak Ave"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDuplicate(existing, tt.loc)
			if errors.Is(err, ErrDuplicate) != tt.dup {
				t.Errorf("CheckDuplicate() error = %v, want duplicate %v", err, tt.dup)
			}
		})
	}
}

func TestBackfillIDs(t *testing.T) {
	in := []models.Location{{Name: "A"}, {ID: "b", Name: "B"}, {Name: "C"}}
	out, filled := BackfillIDs(in)

	if filled != 2 {
		t.Errorf("filled = %d, want 2", filled)
	}
	if out[0].ID == "" || out[2].ID == "" || out[0].ID == out[2].ID {
		t.Errorf("IDs = %q, %q", out[0].ID, out[2].ID)
	}
	if out[1].ID != "b" {
		t.Errorf("existing ID changed to %q", out[1].ID)
	}
	if in[0].ID != "" {
		t.Error("BackfillIDs() modified its input")
	}
}

func TestPlaceholdersAndDuplicateQuery(t *testing.T) {
	dollar := func(i int) string { return "$" + string(rune('0'+i)) }
	if got := Placeholders(3, dollar); got != "$1, $2, $3" {
		t.Errorf("Placeholders() = %q", got)
	}
	question := func(int) string { return "?" }
	if got := Placeholders(2, question); got != "?, ?" {
		t.Errorf("Placeholders() = %q", got)
	}

	q := DuplicateQuery(dollar)
	for _, mark := range []string{"$1", "$2", "$3"} {
		if !strings.Contains(q, mark) {
			t.Errorf("DuplicateQuery() missing %s: %s", mark, q)
		}
	}
}
