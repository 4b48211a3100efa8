package tui

import "github.com/alshwehdya-source/quiz/internal/quiz"

// gradedMsg is sent when the current answer has been graded.
type gradedMsg struct {
	Answer quiz.Answer
	Err    error
}

// attemptSavedMsg is sent when the finished attempt has been persisted.
type attemptSavedMsg struct {
	Err error
}
