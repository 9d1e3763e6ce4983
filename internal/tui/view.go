package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == StateEditSettings {
		return m.form.View()
	}

	var content string
	switch m.state {
	case StateQuote:
		content = m.viewQuote()
	case StateHistory:
		content = m.viewHistory()
	case StateSettings:
		content = m.viewSettings()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Quote", "History", "Settings"}
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewQuote() string {
	if m.fetching {
		return docStyle.Render(m.spinner.View() + " Fetching your pep talk...")
	}
	if !m.hasQuote {
		return docStyle.Render("No quote yet. Press n to fetch one.")
	}

	var b strings.Builder
	b.WriteString(quoteStyle.Render(fmt.Sprintf("%q", m.current.Text)))
	b.WriteString("\n")
	b.WriteString(authorStyle.Render("— " + m.current.Author))

	if m.settings.NotificationsEnabled {
		if trigger, err := m.scheduler.NextTrigger(m.settings.CustomTimes, time.Now()); err == nil {
			b.WriteString("\n\n")
			b.WriteString(triggerStyle.Render("Next pep talk: " + trigger.String()))
		}
	}

	return docStyle.Render(b.String())
}

func (m Model) viewHistory() string {
	if len(m.history) == 0 {
		return docStyle.Render("No quote history yet.")
	}

	var b strings.Builder
	for i, q := range m.history {
		line := fmt.Sprintf("%q — %s", q.Text, q.Author)
		if i == m.historyIdx {
			b.WriteString(activeTabStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return docStyle.Render(b.String())
}

func (m Model) viewSettings() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Frequency:             %s\n", m.settings.NotificationFrequency))
	b.WriteString(fmt.Sprintf("Notification times:    %s\n", strings.Join(m.settings.CustomTimes, ", ")))
	b.WriteString(fmt.Sprintf("Notifications enabled: %v\n", m.settings.NotificationsEnabled))
	b.WriteString(fmt.Sprintf("Calendar reminders:    %v\n", m.settings.CalendarIntegrationEnabled))
	b.WriteString(fmt.Sprintf("Google connected:      %v\n", m.settings.GoogleCalendarConnected))
	b.WriteString(fmt.Sprintf("Apple connected:       %v\n", m.settings.AppleCalendarConnected))
	if m.formError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.formError))
	}
	return docStyle.Render(b.String())
}
