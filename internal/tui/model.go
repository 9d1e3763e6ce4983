package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/models"
	"github.com/peptalk/peptalk-cli/internal/quotes"
	"github.com/peptalk/peptalk-cli/internal/scheduler"
	"github.com/peptalk/peptalk-cli/internal/storage"
)

type SessionState int

const (
	StateQuote SessionState = iota
	StateHistory
	StateSettings
	StateEditSettings
)

// SettingsFormModel holds the raw string form of the settings while a
// huh form is open; values are parsed back on completion.
type SettingsFormModel struct {
	Frequency            constants.NotificationFrequency
	CustomTimes          string
	NotificationsEnabled bool
	CalendarIntegration  bool
}

type Model struct {
	store        storage.Provider
	scheduler    *scheduler.Scheduler
	fetcher      *quotes.Fetcher
	state        SessionState
	keys         KeyMap
	help         help.Model
	spinner      spinner.Model
	fetching     bool
	form         *huh.Form
	settingsForm *SettingsFormModel
	settings     models.Settings
	current      models.Quote
	hasQuote     bool
	history      []models.Quote
	historyIdx   int
	formError    string
	quitting     bool
	width        int
	height       int
}

func NewModel(store storage.Provider, sched *scheduler.Scheduler, fetcher *quotes.Fetcher) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		store:     store,
		scheduler: sched,
		fetcher:   fetcher,
		state:     StateQuote,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
	}

	if settings, err := store.GetSettings(); err == nil {
		m.settings = settings
	}
	if quote, err := store.GetCurrentQuote(); err == nil {
		m.current = quote
		m.hasQuote = true
	}
	if history, err := store.GetQuoteHistory(constants.QuoteHistoryCapacity); err == nil {
		m.history = history
	}

	// Fetch an initial quote when the slot is empty.
	m.fetching = !m.hasQuote

	return m
}

func (m Model) Init() tea.Cmd {
	if m.fetching {
		return tea.Batch(m.spinner.Tick, m.fetchQuote())
	}
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateQuote:
		keys = append(keys, m.keys.New)
	case StateHistory:
		keys = append(keys, m.keys.Up, m.keys.Down)
	case StateSettings:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	actions := []key.Binding{m.keys.New, m.keys.Edit, m.keys.Up, m.keys.Down}
	return [][]key.Binding{global, actions}
}

func (m *Model) newSettingsForm() *huh.Form {
	m.settingsForm = &SettingsFormModel{
		Frequency:            m.settings.NotificationFrequency,
		CustomTimes:          strings.Join(m.settings.CustomTimes, ","),
		NotificationsEnabled: m.settings.NotificationsEnabled,
		CalendarIntegration:  m.settings.CalendarIntegrationEnabled,
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[constants.NotificationFrequency]().
				Title("Notification frequency").
				Options(
					huh.NewOption("Once daily (12:00)", constants.FrequencyDaily),
					huh.NewOption("Twice daily (12:00, 18:00)", constants.FrequencyTwiceDaily),
					huh.NewOption("Custom times", constants.FrequencyCustom),
				).
				Value(&m.settingsForm.Frequency),
			huh.NewInput().
				Title("Custom times (comma separated, max 3)").
				Placeholder("09:00,12:00,18:00").
				Value(&m.settingsForm.CustomTimes),
			huh.NewConfirm().
				Title("Notifications enabled").
				Value(&m.settingsForm.NotificationsEnabled),
			huh.NewConfirm().
				Title("Calendar-linked reminders").
				Value(&m.settingsForm.CalendarIntegration),
		),
	)
}
