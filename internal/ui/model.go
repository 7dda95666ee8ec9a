// Package ui renders transient status lines beneath the main view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidloop/vidloop/style"
)

// Lifetime is how long a notification stays visible.
const Lifetime = 3 * time.Second

// NotificationMsg shows Text until it is replaced or expires.
type NotificationMsg struct {
	Text string
	id   uint64
}

// ClearNotificationMsg hides the notification it was scheduled for.
type ClearNotificationMsg struct {
	id uint64
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: text}
	}
}

// Model holds the current notification.
type Model struct {
	notification string
	id           uint64
}

// Current returns the visible notification, if any.
func (m *Model) Current() string {
	return m.notification
}

// Update handles notification messages. Other messages are ignored.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.id++
		m.notification = msg.Text
		id := m.id
		return tea.Tick(Lifetime, func(time.Time) tea.Msg {
			return ClearNotificationMsg{id: id}
		})
	case ClearNotificationMsg:
		// a newer notification restarted the lifetime
		if msg.id == m.id {
			m.notification = ""
		}
	}
	return nil
}

// View appends the notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
