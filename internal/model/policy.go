package model

// GradingPolicy holds the four category weights of a course, one row per
// course. Weights are independent in storage; summing to 100 is a soft
// expectation of the extraction contract, not a stored constraint.
type GradingPolicy struct {
	ID       int64    `json:"id"`
	CourseID int64    `json:"course_id"`
	Homework *float64 `json:"homework"`
	Tests    *float64 `json:"tests"`
	Project  *float64 `json:"project"`
	Quizzes  *float64 `json:"quizzes"`
}

// CoursePolicy holds administrative rules of a course, one row per course.
type CoursePolicy struct {
	ID            int64   `json:"id"`
	CourseID      int64   `json:"course_id"`
	LateDaysTotal *int    `json:"late_days_total"`
	LateDaysPerHW *int    `json:"late_days_per_hw"`
	GenAIAllowed  *bool   `json:"genai_allowed"`
	GenAINotes    *string `json:"genai_notes"`
}
