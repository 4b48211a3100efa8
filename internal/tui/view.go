package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/alshwehdya-source/quiz/internal/quiz"
	"github.com/alshwehdya-source/quiz/internal/ui/components"
	"github.com/alshwehdya-source/quiz/internal/ui/theme"
)

func (s *Session) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if s.width == 0 || s.height == 0 {
		return v
	}

	var content string
	switch s.phase {
	case phaseSummary:
		content = s.renderSummary()
	default:
		content = s.renderQuestion()
	}

	v.SetContent(lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(content))
	return v
}

func (s *Session) renderQuestion() string {
	q := s.current()
	var b strings.Builder

	// Header: topic left, position and running score right.
	left := theme.Title.Render(s.quiz.Topic)
	right := theme.Subtitle.Render(fmt.Sprintf("Q %d/%d  •  %d correct",
		s.idx+1, len(s.quiz.Questions), correctCount(s.answers)))
	pad := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		pad = 1
	}
	b.WriteString(left + strings.Repeat(" ", pad) + right)
	b.WriteString("\n")

	progress := components.NewProgressBar("", float64(s.idx)/float64(len(s.quiz.Questions)), false, s.width-4)
	b.WriteString(progress.View())
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Bold(true).Render(q.Text))
	b.WriteString("\n\n")

	switch q.Type {
	case quiz.TypeMultipleChoice:
		b.WriteString(s.mc.View(correctIndex(q)))
		if s.phase == phaseQuestion {
			b.WriteString(theme.Hint.Render("\nSelect (1-4) or arrows + Enter"))
		}
	default:
		b.WriteString("Answer: " + s.input.View())
		if s.phase == phaseQuestion {
			b.WriteString(theme.Hint.Render("\n\nEnter to submit"))
		}
	}

	if s.phase == phaseGrading {
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render("Grading..."))
	}

	if s.phase == phaseFeedback {
		b.WriteString("\n\n")
		b.WriteString(s.renderFeedback(q))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render("Error: " + s.errMsg))
		b.WriteString(theme.Hint.Render("\nFix the problem and submit again, or ctrl+c to quit."))
	}

	return b.String()
}

func (s *Session) renderFeedback(q quiz.Question) string {
	var b strings.Builder

	if s.last.Correct {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite."))
		if q.Type != quiz.TypeMultipleChoice {
			b.WriteString(theme.Body.Render("  The answer is: " + q.Answer))
		}
	}
	if s.last.Feedback != "" {
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(s.last.Feedback))
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press any key to continue"))
	return b.String()
}

func (s *Session) renderSummary() string {
	score, total := quiz.Score(s.answers)
	percent := 0
	if total > 0 {
		percent = score * 100 / total
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Score: %d/%d (%d%%)", score, total, percent)))
	b.WriteString("\n\n")

	for i, a := range s.answers {
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mark,
			theme.Subtitle.Render(truncateLine(s.quiz.Questions[i].Text, s.width-8))))
	}

	b.WriteString("\n")
	if s.saveErr != nil {
		b.WriteString(theme.Incorrect.Render("Could not save attempt: " + s.saveErr.Error()))
		b.WriteString("\n")
	} else if s.saved {
		b.WriteString(theme.Subtitle.Render("Attempt saved."))
		b.WriteString("\n")
	}
	b.WriteString(theme.Hint.Render("Press Enter to exit"))
	return b.String()
}

// correctIndex finds the position of the stored answer in the choices.
func correctIndex(q quiz.Question) int {
	for i, c := range q.Choices {
		if c == q.Answer {
			return i
		}
	}
	return -1
}

func correctCount(answers []quiz.Answer) int {
	n := 0
	for _, a := range answers {
		if a.Correct {
			n++
		}
	}
	return n
}

func truncateLine(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
