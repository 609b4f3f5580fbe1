package locations

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/schedule"
	"github.com/feedingfoundation/locator/internal/storage"
)

// Thursday 2025-10-09 10:00 UTC.
var thursdayMorning = time.Date(2025, time.October, 9, 10, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "locations.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })

	return &cli.Context{
		Store:    store,
		Location: time.UTC,
		Memo:     schedule.NewMemo(),
		Now:      func() time.Time { return thursdayMorning },
	}, &buf
}

const hopePantryJSON = `{
	"name": "Hope Pantry",
	"type": "Food Pantry",
	"address": "12 Jackson St, Newnan, GA 30263",
	"county": "coweta county",
	"description": "Groceries for families",
	"schedule": "Thursdays, 9 am - 12 pm",
	"website": "https://hope.example.org"
}`

func TestAddCmd_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     AddCmd
		wantErr bool
	}{
		{"json only", AddCmd{JSON: "{}"}, false},
		{"form only", AddCmd{Form: true}, false},
		{"neither", AddCmd{}, true},
		{"both", AddCmd{JSON: "{}", Form: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddCmd_JSONFillsAddressParts(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&AddCmd{JSON: hopePantryJSON}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	locs, _ := ctx.Store.GetAllLocations()
	if len(locs) != 1 {
		t.Fatalf("stored %d locations, want 1", len(locs))
	}
	loc := locs[0]
	if loc.City != "Newnan" || loc.State != "GA" || loc.Zip != "30263" || loc.County != "Coweta" {
		t.Errorf("address parts = %s/%s/%s/%s", loc.City, loc.State, loc.Zip, loc.County)
	}
	if loc.ID == "" || !loc.IsActive() {
		t.Errorf("new location should get an ID and be active: %+v", loc)
	}
	if !strings.Contains(out.String(), "Added Hope Pantry") {
		t.Errorf("output = %q", out.String())
	}
}

func TestAddCmd_Rejects(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&AddCmd{JSON: hopePantryJSON}).Run(ctx); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	tests := []struct {
		name string
		json string
		want string
	}{
		{"duplicate", strings.Replace(hopePantryJSON, "Hope Pantry", "HOPE PANTRY", 1), "already listed"},
		{"missing fields", `{"name": "Nameless", "address": "1 Main St"}`, "missing required fields"},
		{"bad json", `{"name":`, "invalid location JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&AddCmd{JSON: tt.json}).Run(ctx)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func seed(t *testing.T, ctx *cli.Context, locs ...models.Location) []models.Location {
	t.Helper()
	var saved []models.Location
	for _, loc := range locs {
		s, err := ctx.Store.AddLocation(loc)
		if err != nil {
			t.Fatalf("AddLocation() failed: %v", err)
		}
		saved = append(saved, s)
	}
	return saved
}

func location(name, county, schedule string) models.Location {
	return models.Location{
		Name: name, Type: "Food Pantry", Address: name + " Rd", City: "Newnan",
		State: "GA", Zip: "30263", County: county, Description: "d",
		Schedule: schedule, Website: "https://example.org",
	}
}

func TestListCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	saved := seed(t, ctx,
		location("Morning Pantry", "Coweta", "Thursdays, 9 am - 12 pm"),
		location("Evening Kitchen", "Coweta", "Thursdays 5pm-7pm"),
		location("Fayette Fridge", "Fayette", "24/7"),
		location("Church Pantry", "Coweta", "By appointment"),
	)
	inactive := saved[2]
	inactive.SetActive(false)
	if err := ctx.Store.UpdateLocation(inactive); err != nil {
		t.Fatalf("UpdateLocation() failed: %v", err)
	}

	tests := []struct {
		name    string
		cmd     ListCmd
		want    []string
		notWant []string
	}{
		{
			name:    "default hides inactive",
			cmd:     ListCmd{},
			want:    []string{"[Open now] Morning Pantry", "[Closed] Evening Kitchen", "  Church Pantry"},
			notWant: []string{"Fayette Fridge"},
		},
		{
			name:    "open now",
			cmd:     ListCmd{OpenNow: true},
			want:    []string{"Morning Pantry"},
			notWant: []string{"Evening Kitchen", "Church Pantry"},
		},
		{
			name:    "all with ids",
			cmd:     ListCmd{All: true, ShowIDs: true},
			want:    []string{"Fayette Fridge (ID: " + saved[2].ID + ") (inactive)"},
		},
		{
			name:    "search",
			cmd:     ListCmd{Search: "kitchen"},
			want:    []string{"Evening Kitchen"},
			notWant: []string{"Morning Pantry"},
		},
		{
			name: "no match",
			cmd:  ListCmd{County: "Fulton"},
			want: []string{"No locations found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("output should not contain %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestStatusCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	saved := seed(t, ctx, location("Morning Pantry", "Coweta", "Thursdays, 9 am - 12 pm"))

	if err := (&StatusCmd{ID: saved[0].ID}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Status:   open") || !strings.Contains(got, "Badge:    Open now") {
		t.Errorf("output = %q", got)
	}

	if err := (&StatusCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("expected an error for an unknown ID")
	}
}

func TestDeleteCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	saved := seed(t, ctx,
		location("Keep", "Coweta", "24/7"),
		location("Retire", "Coweta", "24/7"),
	)

	if err := (&DeleteCmd{ID: saved[1].ID, Deactivate: true}).Run(ctx); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	loc, err := ctx.Store.GetLocation(saved[1].ID)
	if err != nil || loc.IsActive() {
		t.Fatalf("after deactivate: %+v, %v", loc, err)
	}

	if err := (&DeleteCmd{ID: saved[1].ID}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	locs, _ := ctx.Store.GetAllLocations()
	if len(locs) != 1 || locs[0].Name != "Keep" {
		t.Errorf("remaining = %+v", locs)
	}

	if err := (&DeleteCmd{ID: saved[1].ID}).Run(ctx); err == nil {
		t.Error("deleting twice should fail")
	}
}

func TestRenderParse(t *testing.T) {
	at := schedule.MomentAt(thursdayMorning)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"weekly open", "Thursdays, 9 am - 12 pm", []string{"Kind:   scheduled", "Now:    open (Open now)"}},
		{"appointment", "By appointment", []string{"Kind:   appointment", "Now:    unknown"}},
		{"inverted", "Fri 10pm - 2am", []string{"crosses midnight"}},
		{"days only", "Saturdays", []string{"days were found but no times"}},
		{"empty", "", []string{"No schedule given", "Now:    unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderParse(tt.text, at, false)
			if err != nil {
				t.Fatalf("renderParse() failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestRenderParse_JSON(t *testing.T) {
	got, err := renderParse("Second Saturday of each month", schedule.MomentAt(thursdayMorning), true)
	if err != nil {
		t.Fatalf("renderParse() failed: %v", err)
	}

	var decoded struct {
		Schedule struct {
			Kind     string `json:"kind"`
			Weekday  string `json:"weekday"`
			Ordinals []int  `json:"ordinals"`
		} `json:"schedule"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, got)
	}
	if decoded.Schedule.Kind != "monthly" || decoded.Schedule.Weekday != "saturday" ||
		len(decoded.Schedule.Ordinals) != 1 || decoded.Schedule.Ordinals[0] != 2 {
		t.Errorf("schedule = %+v", decoded.Schedule)
	}
	if decoded.Status != "closed" {
		t.Errorf("status = %q, want closed on a Thursday", decoded.Status)
	}
}
