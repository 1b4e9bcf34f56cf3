package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/courseclip/syllabus-backend/internal/model"
)

// LectureRepository handles lecture data access.
type LectureRepository struct {
	db Querier
}

// NewLectureRepository creates a new LectureRepository.
func NewLectureRepository(db Querier) *LectureRepository {
	return &LectureRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *LectureRepository) WithTx(tx pgx.Tx) *LectureRepository {
	return &LectureRepository{db: tx}
}

// CreateBatch inserts all lectures in one round trip. A nil or empty slice
// is a no-op, not an error.
func (r *LectureRepository) CreateBatch(ctx context.Context, lectures []model.Lecture) error {
	if len(lectures) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, l := range lectures {
		b.Queue(
			`INSERT INTO lectures (course_id, lecture_number, title, date, topics, description)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			l.CourseID, l.LectureNumber, l.Title, l.Date, l.Topics, l.Description,
		)
	}

	results := r.db.SendBatch(ctx, b)
	defer results.Close()
	for range lectures {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListByCourse retrieves all lectures of a course in lecture-number order.
func (r *LectureRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Lecture, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, course_id, lecture_number, title, date, topics, description
		 FROM lectures WHERE course_id = $1 ORDER BY lecture_number, id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lectures []model.Lecture
	for rows.Next() {
		var l model.Lecture
		if err := rows.Scan(&l.ID, &l.CourseID, &l.LectureNumber, &l.Title, &l.Date, &l.Topics, &l.Description); err != nil {
			return nil, err
		}
		lectures = append(lectures, l)
	}
	return lectures, rows.Err()
}
