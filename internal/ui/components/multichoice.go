package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/alshwehdya-source/quiz/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector component.
type MultiChoice struct {
	Options   []string
	Selected  int
	Submitted bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "1", "2", "3", "4":
		idx := int(kmsg.String()[0] - '1')
		if idx < len(m.Options) {
			m.Selected = idx
		}
	case "enter":
		m.Submitted = true
	}

	return m, nil
}

// View renders the option list. After submission the correct choice is
// highlighted against the learner's pick.
func (m MultiChoice) View(correctIndex int) string {
	var s string
	labels := []string{"A", "B", "C", "D"}

	for i, opt := range m.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(labels) {
			label = labels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		switch {
		case m.Submitted && i == correctIndex:
			s += theme.Correct.Render(line) + "\n"
		case m.Submitted && i == m.Selected:
			s += theme.Incorrect.Render(line) + "\n"
		case m.Submitted:
			s += theme.Hint.Render(line) + "\n"
		case i == m.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}

// Value returns the text of the currently selected option.
func (m MultiChoice) Value() string {
	if m.Selected < 0 || m.Selected >= len(m.Options) {
		return ""
	}
	return m.Options[m.Selected]
}
