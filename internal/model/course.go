package model

import "time"

// Course is the root academic-term entity. Every other syllabus record
// references its identifier, which the persistence layer assigns exactly
// once at creation.
type Course struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Term      string    `json:"term"`
	Units     *float64  `json:"units"`
	CreatedAt time.Time `json:"created_at"`
}

// FullCourseRecord is the single-course composite read: the course plus all
// four dependent sets, fetched together.
type FullCourseRecord struct {
	Course   Course         `json:"course"`
	Grading  *GradingPolicy `json:"grading"`
	Events   []Event        `json:"events"`
	Lectures []Lecture      `json:"lectures"`
	Policy   *CoursePolicy  `json:"policies"`
}

// NextDeadline is the nearest upcoming event of a course, reduced to the
// fields the dashboard list needs.
type NextDeadline struct {
	Name        string    `json:"name"`
	Type        EventType `json:"type"`
	DueDate     Date      `json:"due_date"`
	ReleaseDate *Date     `json:"release_date"`
}

// CourseWithDeadline pairs a course with its nearest upcoming deadline.
// NextDeadline is nil when the course has no event due today or later.
type CourseWithDeadline struct {
	Course       Course        `json:"course"`
	NextDeadline *NextDeadline `json:"next_deadline"`
}
