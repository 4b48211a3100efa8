package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/alshwehdya-source/quiz/internal/quiz"
	"github.com/alshwehdya-source/quiz/internal/store"
	"github.com/alshwehdya-source/quiz/internal/ui/components"
)

type phase int

const (
	phaseQuestion phase = iota
	phaseGrading
	phaseFeedback
	phaseSummary
)

// Session is the Bubble Tea model for taking a quiz, one question at a
// time with feedback after each answer.
type Session struct {
	quiz     *quiz.Quiz
	grader   *quiz.Grader
	quizRepo store.QuizRepo

	idx       int
	answers   []quiz.Answer
	last      quiz.Answer
	phase     phase
	startedAt time.Time

	mc    components.MultiChoice
	input components.TextInput

	width   int
	height  int
	errMsg  string
	saveErr error
	saved   bool
}

// NewSession creates the session model for one quiz.
func NewSession(q *quiz.Quiz, grader *quiz.Grader, repo store.QuizRepo) *Session {
	s := &Session{
		quiz:      q,
		grader:    grader,
		quizRepo:  repo,
		startedAt: time.Now().UTC(),
	}
	s.setupQuestion()
	return s
}

// Run takes the quiz in an interactive terminal session.
func Run(q *quiz.Quiz, grader *quiz.Grader, repo store.QuizRepo) error {
	_, err := tea.NewProgram(NewSession(q, grader, repo)).Run()
	return err
}

func (s *Session) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Session) current() quiz.Question {
	return s.quiz.Questions[s.idx]
}

// setupQuestion resets the input components for the question at idx.
func (s *Session) setupQuestion() {
	q := s.current()
	s.phase = phaseQuestion
	if q.Type == quiz.TypeMultipleChoice {
		s.mc = components.NewMultiChoice(q.Choices)
	} else {
		placeholder := "Type your answer..."
		if q.Type == quiz.TypeTrueFalse {
			placeholder = "true or false"
		}
		s.input = components.NewTextInput(placeholder, 200)
	}
}

func (s *Session) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		return s, nil

	case gradedMsg:
		return s.handleGraded(msg)

	case attemptSavedMsg:
		s.saved = true
		s.saveErr = msg.Err
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *Session) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return s, tea.Quit
	}

	switch s.phase {
	case phaseQuestion:
		if key == "enter" {
			return s.submit()
		}
		q := s.current()
		if q.Type == quiz.TypeMultipleChoice {
			var cmd tea.Cmd
			s.mc, cmd = s.mc.Update(msg)
			return s, cmd
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseFeedback:
		// Any key advances.
		if s.idx+1 < len(s.quiz.Questions) {
			s.idx++
			s.setupQuestion()
			return s, s.input.Init()
		}
		return s.finish()

	case phaseSummary:
		if key == "enter" || key == "q" || key == "esc" {
			return s, tea.Quit
		}
	}

	return s, nil
}

// submit grades the current answer. Closed question types grade
// instantly; short answers go to the LLM, so grading runs as a command.
func (s *Session) submit() (tea.Model, tea.Cmd) {
	q := s.current()

	var given string
	if q.Type == quiz.TypeMultipleChoice {
		given = s.mc.Value()
	} else {
		given = s.input.Value()
	}
	if given == "" {
		return s, nil
	}

	s.phase = phaseGrading
	grader := s.grader
	return s, func() tea.Msg {
		ans, err := grader.Grade(context.Background(), q, given)
		return gradedMsg{Answer: ans, Err: err}
	}
}

func (s *Session) handleGraded(msg gradedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		s.phase = phaseQuestion
		return s, nil
	}

	s.errMsg = ""
	s.last = msg.Answer
	s.answers = append(s.answers, msg.Answer)

	q := s.current()
	if q.Type == quiz.TypeMultipleChoice {
		s.mc.Submitted = true
	} else {
		s.input.Submit(msg.Answer.Correct)
	}

	s.phase = phaseFeedback
	return s, nil
}

// finish tallies the score, persists the attempt, and shows the summary.
func (s *Session) finish() (tea.Model, tea.Cmd) {
	s.phase = phaseSummary
	score, total := quiz.Score(s.answers)

	attempt := &store.AttemptRecord{
		ID:         uuid.NewString(),
		QuizID:     s.quiz.ID,
		StartedAt:  s.startedAt,
		FinishedAt: time.Now().UTC(),
		Score:      score,
		Total:      total,
	}
	for _, a := range s.answers {
		attempt.Answers = append(attempt.Answers, store.AttemptAnswerRecord{
			QuestionID: a.QuestionID,
			Given:      a.Given,
			Correct:    a.Correct,
			Feedback:   a.Feedback,
		})
	}

	repo := s.quizRepo
	return s, func() tea.Msg {
		return attemptSavedMsg{Err: repo.SaveAttempt(context.Background(), attempt)}
	}
}
