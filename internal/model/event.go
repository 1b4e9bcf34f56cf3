package model

// EventType enumerates the gradable deliverable kinds. The extraction
// contract is case-sensitive; anything outside these four literals is
// rejected, never coerced.
type EventType string

const (
	EventHomework EventType = "homework"
	EventTest     EventType = "test"
	EventProject  EventType = "project"
	EventQuiz     EventType = "quiz"
)

// EventTypes lists every valid event type, in contract order.
func EventTypes() []EventType {
	return []EventType{EventHomework, EventTest, EventProject, EventQuiz}
}

// Valid reports whether t is one of the four enumerated literals.
func (t EventType) Valid() bool {
	switch t {
	case EventHomework, EventTest, EventProject, EventQuiz:
		return true
	}
	return false
}

// Event is a gradable deliverable. Weight is always an individual-assignment
// weight, never a category aggregate.
type Event struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"course_id"`
	Type        EventType `json:"type"`
	Name        string    `json:"name"`
	ReleaseDate *Date     `json:"release_date"`
	DueDate     *Date     `json:"due_date"`
	Weight      *float64  `json:"weight"`
}
