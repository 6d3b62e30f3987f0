// Package tui renders live mirroring progress with Bubble Tea. Work items
// arrive from the mirror engine as messages; the view groups them by kind
// (wiki metadata, archives, box scans) and keeps a short scrollback of
// finished ones.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ItemStatus is the lifecycle of one work item.
type ItemStatus int

const (
	StatusPending ItemStatus = iota
	StatusActive
	StatusDone
	StatusFailed
)

// Item is one unit of mirroring work: a wiki page fetch, an archive
// download, or a box scan download. The ID's prefix ("meta:", "lha:",
// "cover:") decides the icon.
type Item struct {
	ID     string
	Title  string
	Status ItemStatus
	Error  string
}

// maxRecentItems bounds the finished-items scrollback.
const maxRecentItems = 6

// Model is the Bubble Tea model for the mirror TUI.
type Model struct {
	items map[string]*Item

	pendingCount int
	activeCount  int
	doneCount    int
	failedCount  int
	totalCount   int

	activeItems []*Item
	recentItems []*Item

	spinner  spinner.Model
	done     bool
	err      error
	quitting bool

	headerStyle lipgloss.Style
	titleStyle  lipgloss.Style
	countStyle  lipgloss.Style
	doneStyle   lipgloss.Style
	errorStyle  lipgloss.Style
	barStyle    lipgloss.Style
	dimStyle    lipgloss.Style
}

// Messages sent into the program by the mirror engine.
type (
	// AddItemMsg registers a new pending work item.
	AddItemMsg struct {
		ID    string
		Title string
	}

	// UpdateStatusMsg moves an item through its lifecycle.
	UpdateStatusMsg struct {
		ID     string
		Status ItemStatus
		Error  string
	}

	// DoneMsg signals that the run finished.
	DoneMsg struct {
		Err error
	}
)

// New creates the TUI model.
func New() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		items:       make(map[string]*Item),
		activeItems: make([]*Item, 0),
		recentItems: make([]*Item, 0),
		spinner:     s,

		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		titleStyle:  lipgloss.NewStyle().Bold(true),
		countStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		doneStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		barStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		dimStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case AddItemMsg:
		if _, exists := m.items[msg.ID]; exists {
			return m, nil
		}
		m.items[msg.ID] = &Item{ID: msg.ID, Title: msg.Title, Status: StatusPending}
		m.pendingCount++
		m.totalCount++
		return m, nil

	case UpdateStatusMsg:
		item, ok := m.items[msg.ID]
		if !ok {
			return m, nil
		}

		oldStatus := item.Status
		item.Status = msg.Status
		item.Error = msg.Error

		switch oldStatus {
		case StatusPending:
			m.pendingCount--
		case StatusActive:
			m.activeCount--
		case StatusDone:
			m.doneCount--
		case StatusFailed:
			m.failedCount--
		}
		switch msg.Status {
		case StatusPending:
			m.pendingCount++
		case StatusActive:
			m.activeCount++
		case StatusDone:
			m.doneCount++
		case StatusFailed:
			m.failedCount++
		}

		if oldStatus == StatusActive && msg.Status != StatusActive {
			m.activeItems = removeItem(m.activeItems, item)
		}
		if msg.Status == StatusActive && oldStatus != StatusActive {
			m.activeItems = append(m.activeItems, item)
		}

		if msg.Status == StatusDone || msg.Status == StatusFailed {
			m.recentItems = append(m.recentItems, item)
			if len(m.recentItems) > maxRecentItems {
				m.recentItems = m.recentItems[len(m.recentItems)-maxRecentItems:]
			}
		}

		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func removeItem(slice []*Item, item *Item) []*Item {
	for i, v := range slice {
		if v == item {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.headerStyle.Render("Mirroring UnExoticA"))
	b.WriteString("\n")

	completed := m.doneCount + m.failedCount
	if m.totalCount > 0 {
		percent := float64(completed) / float64(m.totalCount) * 100
		barWidth := 40
		filledWidth := int(float64(barWidth) * float64(completed) / float64(m.totalCount))
		if filledWidth > barWidth {
			filledWidth = barWidth
		}

		bar := strings.Repeat("━", filledWidth) + strings.Repeat("─", barWidth-filledWidth)
		b.WriteString(m.barStyle.Render(bar))
		b.WriteString(fmt.Sprintf(" %.0f%% (%d/%d)\n", percent, completed, m.totalCount))
	}

	counts := fmt.Sprintf("Pending: %d  Active: %d  Done: %d  Failed: %d",
		m.pendingCount, m.activeCount, m.doneCount, m.failedCount)
	b.WriteString(m.countStyle.Render(counts))
	b.WriteString("\n\n")

	if len(m.activeItems) > 0 {
		b.WriteString(m.dimStyle.Render("In flight:"))
		b.WriteString("\n")
		for _, item := range m.activeItems {
			b.WriteString(m.renderActiveItem(item))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(m.recentItems) > 0 {
		b.WriteString(m.dimStyle.Render("Recent:"))
		b.WriteString("\n")
		for _, item := range m.recentItems {
			b.WriteString(m.renderRecentItem(item))
			b.WriteString("\n")
		}
	}

	if m.done {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(m.errorStyle.Render("✗ Mirror run failed: " + m.err.Error()))
		} else {
			b.WriteString(m.doneStyle.Render("✓ Mirror run complete"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// itemIcon picks an icon from the work item's ID prefix.
func itemIcon(id string) string {
	switch {
	case strings.HasPrefix(id, "lha:"):
		return "🎵"
	case strings.HasPrefix(id, "cover:"):
		return "🖼"
	default:
		return "📄"
	}
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

func (m Model) renderActiveItem(item *Item) string {
	return fmt.Sprintf("  %s %s %s",
		m.spinner.View(),
		itemIcon(item.ID),
		m.titleStyle.Render(truncate(item.Title, 48)),
	)
}

func (m Model) renderRecentItem(item *Item) string {
	var status string
	switch item.Status {
	case StatusDone:
		status = m.doneStyle.Render("✓")
	case StatusFailed:
		status = m.errorStyle.Render("✗ " + truncate(item.Error, 30))
	}

	return fmt.Sprintf("  %s %s %s",
		status,
		itemIcon(item.ID),
		m.dimStyle.Render(truncate(item.Title, 48)),
	)
}
