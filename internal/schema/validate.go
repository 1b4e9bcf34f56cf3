package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/courseclip/syllabus-backend/internal/model"
)

// FieldError pinpoints one contract violation: where it happened and what
// the contract expected versus what was found.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError rejects an entire extraction document. A single field
// violation rejects everything; there is no partial acceptance.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "extraction document failed validation"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		path := f.Path
		if path == "" {
			path = "/"
		}
		parts = append(parts, path+": "+f.Message)
	}
	return "extraction document failed validation: " + strings.Join(parts, "; ")
}

// Validator validates raw extraction output against the syllabus contract
// and decodes it into typed records. The schema is compiled once.
type Validator struct {
	compiled *jsonschema.Schema
}

// NewValidator compiles the syllabus contract schema.
func NewValidator() (*Validator, error) {
	raw, err := json.Marshal(BuildSyllabusJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("syllabus.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("syllabus.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate checks an arbitrary JSON value against the contract and returns
// the typed record the persistence coordinator can trust completely.
// Any violation returns a *ValidationError carrying every leaf failure.
func (v *Validator) Validate(raw []byte) (*model.ExtractedSyllabus, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Path: "", Message: "not a JSON document: " + err.Error()}}}
	}

	if err := v.compiled.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, &ValidationError{Fields: leafFields(ve)}
		}
		return nil, &ValidationError{Fields: []FieldError{{Path: "", Message: err.Error()}}}
	}

	var out model.ExtractedSyllabus
	if err := json.Unmarshal(raw, &out); err != nil {
		// Schema passed but decode failed: the contract and the types drifted.
		return nil, fmt.Errorf("decode validated document: %w", err)
	}

	// The date pattern only checks shape; "2026-02-30" matches it. Parse
	// every date here so downstream conversion can never fail on one.
	if fields := calendarFields(&out); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return &out, nil
}

func calendarFields(rec *model.ExtractedSyllabus) []FieldError {
	var out []FieldError
	check := func(path string, s *string) {
		if s == nil {
			return
		}
		if _, err := model.ParseDate(*s); err != nil {
			out = append(out, FieldError{Path: path, Message: fmt.Sprintf("%q is not a calendar date", *s)})
		}
	}
	for i, e := range rec.Events {
		check(fmt.Sprintf("/events/%d/release_date", i), e.ReleaseDate)
		check(fmt.Sprintf("/events/%d/due_date", i), e.DueDate)
	}
	for i, l := range rec.Lectures {
		check(fmt.Sprintf("/lectures/%d/date", i), l.Date)
	}
	return out
}

// leafFields flattens a jsonschema error tree into its leaf causes, which
// carry the precise instance paths and expected-vs-actual messages.
func leafFields(ve *jsonschema.ValidationError) []FieldError {
	if len(ve.Causes) == 0 {
		return []FieldError{{Path: ve.InstanceLocation, Message: ve.Message}}
	}
	var out []FieldError
	for _, c := range ve.Causes {
		out = append(out, leafFields(c)...)
	}
	return out
}
