package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/finder"
	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/schedule"
	"github.com/feedingfoundation/locator/internal/storage"
	"github.com/feedingfoundation/locator/internal/tui/components/locationlist"
	"github.com/feedingfoundation/locator/internal/validation"
)

type SessionState int

const (
	StateList SessionState = iota
	StateAdding
)

type tickMsg time.Time

type Model struct {
	store     storage.Provider
	tz        *time.Location
	now       func() time.Time
	memo      *schedule.Memo
	state     SessionState
	keys      KeyMap
	help      help.Model
	locations []models.Location
	list      locationlist.Model
	openOnly  bool
	form      *huh.Form
	formModel *LocationFormModel
	quitting  bool
	width     int
	height    int

	statusMsg         string
	formError         string
	validationWarning string
}

func NewModel(store storage.Provider, tz *time.Location) Model {
	if tz == nil {
		tz = time.Local
	}
	m := Model{
		store: store,
		tz:    tz,
		now:   time.Now,
		memo:  schedule.NewMemo(),
		state: StateList,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		list:  locationlist.New(nil, 0, 0),
	}
	m.loadLocations()
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == StateAdding {
		return []key.Binding{m.keys.Back}
	}
	return []key.Binding{m.keys.OpenNow, m.keys.Search, m.keys.Add, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.OpenNow, m.keys.Search, m.keys.Add, m.keys.Refresh},
		{m.keys.Help, m.keys.Quit, m.keys.Back},
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Every(constants.StatusRefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadLocations re-reads the store. The list keeps its old contents when the
// store cannot be read.
func (m *Model) loadLocations() {
	if r, ok := m.store.(storage.Reloader); ok {
		if err := r.Reload(); err != nil {
			logger.Warn("failed to reload locations", "error", err)
			m.statusMsg = "Reload failed: " + err.Error()
			return
		}
	}
	locs, err := m.store.GetAllLocations()
	if err != nil {
		logger.Warn("failed to read locations", "error", err)
		m.statusMsg = "Could not read locations: " + err.Error()
		return
	}
	m.locations = locs
	m.updateValidationStatus()
}

// refresh re-evaluates every status against a single moment.
func (m *Model) refresh() tea.Cmd {
	at := schedule.MomentAt(m.now().In(m.tz))
	results := finder.Filter{OpenNow: m.openOnly, Memo: m.memo}.Apply(m.locations, at)
	return m.list.SetResults(results)
}

func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateLocations(m.locations)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d data warning(s), run 'locator validate'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) openForm() tea.Cmd {
	m.formModel = &LocationFormModel{}
	m.form = NewLocationForm(m.formModel)
	m.formError = ""
	m.state = StateAdding
	return m.form.Init()
}
