package judge

import "github.com/abhisek/vocabdrill/internal/llm"

// VerdictSchema defines the JSON schema for answer grading responses.
var VerdictSchema = &llm.Schema{
	Name:        "answer-verdict",
	Description: "Assessment of a learner's spoken-style answer to a vocabulary question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"fluent": map[string]any{
				"type":        "boolean",
				"description": "True if the answer is natural, grammatical and actually answers the question",
			},
			"has_fillers": map[string]any{
				"type":        "boolean",
				"description": "True if the answer substitutes English words or romanized fillers",
			},
			"meaningfulness": map[string]any{
				"type":        "string",
				"enum":        []any{string(MeaningFull), string(MeaningMinimal)},
				"description": "full if the target word is used meaningfully in context, minimal if only barely adequate or missing",
			},
			"romanization": map[string]any{
				"type":        "string",
				"description": "Romanization of the learner's answer with tone marks or numbers",
			},
			"improved_answer": map[string]any{
				"type":        "string",
				"description": "A more natural answer to the same question that uses the target word",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Constructive feedback written in English",
			},
		},
		"required":             []any{"fluent", "has_fillers", "meaningfulness", "romanization", "improved_answer", "feedback"},
		"additionalProperties": false,
	},
}
