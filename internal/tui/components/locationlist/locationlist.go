package locationlist

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/feedingfoundation/locator/internal/finder"
	"github.com/feedingfoundation/locator/internal/models"
)

var (
	openBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Padding(0, 1).
			Bold(true)

	closedBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 2)
)

// Badge renders the status badge for s, or "" when indeterminate.
func Badge(s models.Status) string {
	text := finder.Badge(s)
	switch s {
	case models.StatusOpen:
		return openBadge.Render(text)
	case models.StatusClosed:
		return closedBadge.Render(text)
	default:
		return ""
	}
}

type Item struct {
	Result finder.Result
}

func (i Item) Title() string {
	name := i.Result.Location.Name
	if badge := Badge(i.Result.Status); badge != "" {
		return name + " " + badge
	}
	return name
}

func (i Item) Description() string {
	loc := i.Result.Location
	parts := []string{loc.Address}
	if loc.Schedule != "" {
		parts = append(parts, loc.Schedule)
	}
	return strings.Join(parts, " | ")
}

// FilterValue lets "/" match on name and address, like the site's search box.
func (i Item) FilterValue() string {
	return i.Result.Location.Name + " " + i.Result.Location.Address
}

type Model struct {
	list list.Model
}

func New(results []finder.Result, width, height int) Model {
	l := list.New(toItems(results), list.NewDefaultDelegate(), width, height)
	l.Title = "Locations"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	return Model{list: l}
}

func toItems(results []finder.Result) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = Item{Result: r}
	}
	return items
}

// SetResults replaces the items, keeping the cursor and any active filter.
func (m *Model) SetResults(results []finder.Result) tea.Cmd {
	return m.list.SetItems(toItems(results))
}

// Results returns every item, ignoring the "/" filter.
func (m Model) Results() []finder.Result {
	out := make([]finder.Result, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		out = append(out, it.(Item).Result)
	}
	return out
}

// Selected returns the highlighted location.
func (m Model) Selected() (models.Location, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Location{}, false
	}
	return it.Result.Location, true
}

// Filtering reports whether the user is typing a "/" query.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return emptyStyle.Render("No locations to show.\nPress 'a' to add one, or 'o' to show closed locations too.")
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
