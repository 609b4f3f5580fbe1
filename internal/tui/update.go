package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/storage"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())
	}

	if m.state == StateAdding {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.list.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.OpenNow):
			m.openOnly = !m.openOnly
			return m, m.refresh()
		case key.Matches(msg, m.keys.Add):
			return m, m.openForm()
		case key.Matches(msg, m.keys.Refresh):
			m.statusMsg = ""
			m.loadLocations()
			if m.statusMsg == "" {
				m.statusMsg = fmt.Sprintf("Loaded %d locations", len(m.locations))
			}
			return m, m.refresh()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		m.state = StateList
		m.formError = ""
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		loc := m.formModel.ToLocation()
		if err := loc.Validate(); err != nil {
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			break
		}
		saved, err := m.store.AddLocation(loc)
		if err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				m.formError = fmt.Sprintf("%q at %s is already listed", loc.Name, loc.Address)
			} else {
				logger.Error("failed to add location", "name", loc.Name, "error", err)
				m.formError = err.Error()
			}
			// Stay on the form so the entry can be corrected or cancelled.
			m.form.State = huh.StateNormal
			break
		}
		logger.Info("location added", "id", saved.ID, "name", saved.Name)
		m.state = StateList
		m.statusMsg = "Added " + saved.Name
		m.loadLocations()
		cmds = append(cmds, m.refresh())
	case huh.StateAborted:
		m.state = StateList
	}
	return m, tea.Batch(cmds...)
}
