package quiz

import "github.com/alshwehdya-source/quiz/internal/llm"

// QuizSchema defines the JSON schema for LLM quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz",
	Description: "A quiz generated from the provided study material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "A short title for what the quiz covers",
			},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []any{"multiple_choice", "true_false", "short_answer"},
						},
						"text": map[string]any{
							"type":        "string",
							"description": "The question as shown to the learner",
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for multiple_choice, empty otherwise",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct answer. For multiple_choice it must equal one of the choices, for true_false it must be \"true\" or \"false\"",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences explaining why the answer is correct",
						},
					},
					"required":             []any{"type", "text", "choices", "answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"topic", "questions"},
		"additionalProperties": false,
	},
}

// GradeSchema defines the JSON schema for LLM short-answer grading responses.
var GradeSchema = &llm.Schema{
	Name:        "grade",
	Description: "A verdict on whether a free-form answer is correct",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the learner's answer conveys the expected answer",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One sentence telling the learner why, phrased to them directly",
			},
		},
		"required":             []any{"correct", "feedback"},
		"additionalProperties": false,
	},
}
