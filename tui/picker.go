// Package tui holds the interactive pieces of the manual workflow.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	// ErrCancelled is returned when the user leaves the picker without choosing.
	ErrCancelled = errors.New("selection cancelled")
	// ErrEmpty is returned when there is nothing to pick from.
	ErrEmpty = errors.New("nothing to select")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6BCB77"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)
)

type ideaItem string

func (i ideaItem) Title() string       { return string(i) }
func (i ideaItem) Description() string { return "" }
func (i ideaItem) FilterValue() string { return string(i) }

// picker 是选题列表的 bubbletea 模型。
type picker struct {
	list      list.Model
	choice    int
	cancelled bool
}

func newPicker(ideas []string) picker {
	items := make([]list.Item, len(ideas))
	for i, idea := range ideas {
		items[i] = ideaItem(idea)
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select your content strategy"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return picker{list: l, choice: -1}
}

func (m picker) Init() tea.Cmd {
	return nil
}

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			m.choice = m.list.Index()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m picker) View() string {
	return fmt.Sprintf("%s\n%s", m.list.View(), hintStyle.Render("↑/↓ move • enter write article • esc cancel"))
}

// PickIdea shows ideas in a full-screen list and returns the chosen index.
func PickIdea(ideas []string) (int, error) {
	if len(ideas) == 0 {
		return -1, ErrEmpty
	}
	final, err := tea.NewProgram(newPicker(ideas), tea.WithAltScreen()).Run()
	if err != nil {
		return -1, fmt.Errorf("idea picker: %w", err)
	}
	m, ok := final.(picker)
	if !ok || m.cancelled || m.choice < 0 {
		return -1, ErrCancelled
	}
	return m.choice, nil
}
