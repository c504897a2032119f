package question

import "github.com/abhisek/vocabdrill/internal/llm"

// QuestionSchema defines the JSON schema for question generation responses.
var QuestionSchema = &llm.Schema{
	Name:        "vocab-question",
	Description: "A single conversational question that invites the learner to use a word",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sentence": map[string]any{
				"type":        "string",
				"description": "The question in Chinese characters only, no romanization or translation",
			},
			"target_word": map[string]any{
				"type":        "string",
				"description": "The word from the question the learner should use in the answer",
			},
			"romanization": map[string]any{
				"type":        "string",
				"description": "Romanization of the question with tones",
			},
		},
		"required":             []any{"sentence", "target_word", "romanization"},
		"additionalProperties": false,
	},
}
