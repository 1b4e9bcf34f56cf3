package model

// ExtractedSyllabus mirrors the extraction contract exactly: the shape the
// extraction service must return and the schema validator enforces. A value
// of this type only exists after strict validation, so downstream code
// trusts it completely and never re-validates.
type ExtractedSyllabus struct {
	Course   ExtractedCourse    `json:"course"`
	Grading  ExtractedGrading   `json:"grading"`
	Events   []ExtractedEvent   `json:"events"`
	Policies ExtractedPolicies  `json:"policies"`
	Lectures []ExtractedLecture `json:"lectures"`
}

// ExtractedCourse is the course block of the extraction contract.
type ExtractedCourse struct {
	Name  string   `json:"name"`
	Code  string   `json:"code"`
	Term  string   `json:"term"`
	Units *float64 `json:"units"`
}

// ExtractedGrading carries category-level percentage weights, null when the
// syllabus does not state them.
type ExtractedGrading struct {
	Homework *float64 `json:"homework"`
	Tests    *float64 `json:"tests"`
	Project  *float64 `json:"project"`
	Quizzes  *float64 `json:"quizzes"`
}

// ExtractedEvent is one gradable deliverable. Dates stay as YYYY-MM-DD
// strings here; the persistence layer parses them.
type ExtractedEvent struct {
	Type        EventType `json:"type"`
	Name        string    `json:"name"`
	ReleaseDate *string   `json:"release_date"`
	DueDate     *string   `json:"due_date"`
	Weight      *float64  `json:"weight"`
}

// ExtractedPolicies is the administrative-rules block.
type ExtractedPolicies struct {
	LateDaysTotal *int    `json:"late_days_total"`
	LateDaysPerHW *int    `json:"late_days_per_hw"`
	GenAIAllowed  *bool   `json:"genai_allowed"`
	GenAINotes    *string `json:"genai_notes"`
}

// ExtractedLecture is one scheduled session from the syllabus calendar.
type ExtractedLecture struct {
	LectureNumber int      `json:"lecture_number"`
	Title         string   `json:"title"`
	Date          *string  `json:"date"`
	Topics        []string `json:"topics"`
	Description   *string  `json:"description"`
}
