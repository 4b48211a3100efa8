package quiz

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const generateSystemPrompt = `You are an expert quiz author. You write quizzes that test genuine understanding of study material, not trivia.

Instructions:
- Every question must be answerable from the provided material alone.
- Cover different parts of the material rather than clustering on one section.
- multiple_choice questions get exactly 4 choices, with plausible distractors and one clearly correct answer that appears verbatim in the choices.
- true_false answers are exactly "true" or "false".
- short_answer questions must have a concise factual answer, not an essay.
- Keep question text under two sentences and explanations under two sentences.
- Match the requested difficulty: "easy" tests recall, "medium" tests comprehension, "hard" tests application and edge cases.`

var generateUserTemplate = template.Must(template.New("generate").Parse(`Write a quiz with exactly {{.NumQuestions}} questions at {{.Difficulty}} difficulty.
Allowed question types: {{.TypeList}}.
{{if .Topic}}Focus on: {{.Topic}}.
{{end}}{{if .Material}}
Study material:
---
{{.Material}}
---{{else}}
The study material is attached.{{end}}`))

// buildGenerateMessage renders the user prompt for quiz generation.
// Inline text material is embedded; binary material travels as
// attachments and is only referenced here.
func buildGenerateMessage(spec GenerateSpec, material string) (string, error) {
	types := make([]string, len(spec.Types))
	for i, t := range spec.Types {
		types[i] = string(t)
	}

	var buf bytes.Buffer
	err := generateUserTemplate.Execute(&buf, struct {
		NumQuestions int
		Difficulty   string
		TypeList     string
		Topic        string
		Material     string
	}{
		NumQuestions: spec.NumQuestions,
		Difficulty:   spec.Difficulty,
		TypeList:     strings.Join(types, ", "),
		Topic:        spec.Topic,
		Material:     material,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

const gradeSystemPrompt = `You grade short-answer quiz responses. Judge meaning, not wording: accept paraphrases, synonyms, and minor spelling mistakes as long as the learner's answer conveys the expected answer. Reject answers that are vague, partial, or contradict the expected answer. Keep feedback to one sentence addressed to the learner.`

// buildGradeMessage renders the user prompt for grading one short answer.
func buildGradeMessage(q Question, given string) string {
	return fmt.Sprintf("Question: %s\nExpected answer: %s\nLearner's answer: %s",
		q.Text, q.Answer, given)
}
