package llm

import (
	"encoding/json"
	"strings"

	"github.com/courseclip/syllabus-backend/internal/schema"
)

// BuildSystemPrompt composes the fixed instruction contract: the exact
// target schema plus the extraction rules the model must follow. The
// contract is deterministic — the same text for every request.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a syllabus parser. Return ONLY a JSON object that matches the provided JSON Schema. No prose, no explanations, no markdown fences.",
		"Use ISO-8601 calendar dates (YYYY-MM-DD). Dates never carry a time of day.",
		"If a value is not stated in the syllabus, output null. Never guess and never omit a key.",
		"Event types are exactly one of: homework, test, project, quiz (lowercase).",
		"The 'grading' block holds CATEGORY-level percentage weights (e.g. all homeworks together are worth 40%).",
		"Each event's 'weight' is the INDIVIDUAL assignment's percentage, never a category total.",
		"List every lecture from the course calendar with its number, title, date, and topic labels.",
		"JSON Schema:\n" + mustJSON(schema.BuildSyllabusJSONSchema()),
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt wraps the normalized syllabus text as the document to
// analyze.
func BuildUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract the structured syllabus from the following document.\n\n")
	b.WriteString("Syllabus text:\n")
	b.WriteString(text)
	return b.String()
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err) // schema map is a compile-time constant shape
	}
	return string(b)
}
