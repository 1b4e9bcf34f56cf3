package model

// Lecture is a scheduled class session. Lecture numbers are expected to be
// monotonic per course but uniqueness is not enforced.
type Lecture struct {
	ID            int64    `json:"id"`
	CourseID      int64    `json:"course_id"`
	LectureNumber int      `json:"lecture_number"`
	Title         string   `json:"title"`
	Date          *Date    `json:"date"`
	Topics        []string `json:"topics"`
	Description   *string  `json:"description"`
}
