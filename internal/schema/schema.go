// Package schema enforces the extraction contract: strict, additive-free
// validation of the JSON the extraction service returns. Validation is
// all-or-nothing; nothing is coerced, defaulted, or dropped.
package schema

import "github.com/courseclip/syllabus-backend/internal/model"

// BuildSyllabusJSONSchema returns the extraction contract as a JSON-Schema
// (draft 2020-12 subset) generic map. The same schema is embedded in the
// extraction prompt and compiled locally for validation, so the instruction
// set and the enforcement can never drift apart.
func BuildSyllabusJSONSchema() map[string]any {
	eventTypes := make([]any, 0, 4)
	for _, t := range model.EventTypes() {
		eventTypes = append(eventTypes, string(t))
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"course", "grading", "events", "policies", "lectures"},
		"properties": map[string]any{
			"course": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"name", "code", "term", "units"},
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"code":  map[string]any{"type": "string"},
					"term":  map[string]any{"type": "string"},
					"units": map[string]any{"type": []string{"number", "null"}, "exclusiveMinimum": 0},
				},
			},
			"grading": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"homework", "tests", "project", "quizzes"},
				"properties": map[string]any{
					"homework": percentOrNull(),
					"tests":    percentOrNull(),
					"project":  percentOrNull(),
					"quizzes":  percentOrNull(),
				},
			},
			"events": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"type", "name", "release_date", "due_date", "weight"},
					"properties": map[string]any{
						"type":         map[string]any{"enum": eventTypes},
						"name":         map[string]any{"type": "string"},
						"release_date": dateOrNull(),
						"due_date":     dateOrNull(),
						"weight":       map[string]any{"type": []string{"number", "null"}},
					},
				},
			},
			"policies": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"late_days_total", "late_days_per_hw", "genai_allowed", "genai_notes"},
				"properties": map[string]any{
					"late_days_total":  map[string]any{"type": []string{"integer", "null"}, "minimum": 0},
					"late_days_per_hw": map[string]any{"type": []string{"integer", "null"}, "minimum": 0},
					"genai_allowed":    map[string]any{"type": []string{"boolean", "null"}},
					"genai_notes":      map[string]any{"type": []string{"string", "null"}},
				},
			},
			"lectures": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"lecture_number", "title", "date", "topics", "description"},
					"properties": map[string]any{
						"lecture_number": map[string]any{"type": "integer"},
						"title":          map[string]any{"type": "string"},
						"date":           dateOrNull(),
						"topics": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"description": map[string]any{"type": []string{"string", "null"}},
					},
				},
			},
		},
	}
}

func percentOrNull() map[string]any {
	return map[string]any{"type": []string{"number", "null"}, "minimum": 0, "maximum": 100}
}

func dateOrNull() map[string]any {
	return map[string]any{"type": []string{"string", "null"}, "pattern": `^\d{4}-\d{2}-\d{2}$`}
}
