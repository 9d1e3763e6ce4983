package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/peptalk/peptalk-cli/internal/cli"
	settingscli "github.com/peptalk/peptalk-cli/internal/cli/settings"
	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/models"
	"github.com/peptalk/peptalk-cli/internal/validation"
)

type quoteMsg struct {
	quote models.Quote
}

func (m Model) fetchQuote() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return quoteMsg{quote: m.fetcher.Fetch(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case quoteMsg:
		m.fetching = false
		m.current = msg.quote
		m.hasQuote = true
		if err := m.store.SetCurrentQuote(msg.quote); err == nil {
			_ = m.store.AddQuoteToHistory(msg.quote)
			if history, err := m.store.GetQuoteHistory(constants.QuoteHistoryCapacity); err == nil {
				m.history = history
			}
		}
		return m, nil
	}

	if m.state == StateEditSettings {
		return m.updateSettingsForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % 3
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state + 2) % 3
		case key.Matches(msg, m.keys.New):
			if m.state == StateQuote && !m.fetching {
				m.fetching = true
				cmds = append(cmds, m.spinner.Tick, m.fetchQuote())
			}
		case key.Matches(msg, m.keys.Edit):
			if m.state == StateSettings {
				m.form = m.newSettingsForm()
				m.formError = ""
				m.state = StateEditSettings
				cmds = append(cmds, m.form.Init())
			}
		case key.Matches(msg, m.keys.Up):
			if m.state == StateHistory && m.historyIdx > 0 {
				m.historyIdx--
			}
		case key.Matches(msg, m.keys.Down):
			if m.state == StateHistory && m.historyIdx < len(m.history)-1 {
				m.historyIdx++
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateSettingsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateSettings
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
		next, err := m.applySettingsForm()
		if err != nil {
			m.formError = err.Error()
			m.state = StateSettings
			break
		}
		m.settings = next
		m.formError = ""
		m.state = StateSettings
	case huh.StateAborted:
		m.state = StateSettings
	}

	return m, tea.Batch(cmds...)
}

// applySettingsForm parses the form back into settings, validates, and
// persists. The frequency transition the CLI uses only runs when the
// frequency actually changed; times typed while already on custom save
// straight through so a stale snapshot cannot clobber them.
func (m *Model) applySettingsForm() (models.Settings, error) {
	settings := m.settings

	if m.settingsForm.Frequency == constants.FrequencyCustom {
		var times []string
		for _, t := range strings.Split(m.settingsForm.CustomTimes, ",") {
			if t = strings.TrimSpace(t); t != "" {
				times = cli.InsertTimeSorted(times, t)
			}
		}
		if settings.NotificationFrequency == constants.FrequencyCustom {
			settings.CustomTimes = times
		} else if len(times) > 0 {
			// Switching to custom with times in the field: those win
			// over the snapshot. An emptied field restores the snapshot.
			settings.SavedCustomTimes = times
		}
	}

	next := settings
	if m.settingsForm.Frequency != settings.NotificationFrequency {
		var err error
		next, err = settingscli.ApplyFrequencyChange(settings, m.settingsForm.Frequency, m.scheduler)
		if err != nil {
			return m.settings, err
		}
	}
	next.NotificationsEnabled = m.settingsForm.NotificationsEnabled
	next.CalendarIntegrationEnabled = m.settingsForm.CalendarIntegration

	if result := validation.ValidateSettings(next); result.HasConflicts() {
		return m.settings, errors.New(result.FormatReport())
	}

	if err := m.store.SaveSettings(next); err != nil {
		return m.settings, err
	}
	return next, nil
}
