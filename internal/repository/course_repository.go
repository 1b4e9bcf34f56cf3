package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/courseclip/syllabus-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	db Querier
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *CourseRepository) WithTx(tx pgx.Tx) *CourseRepository {
	return &CourseRepository{db: tx}
}

// Create inserts a new course and fills in its generated identifier and
// creation time.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO courses (name, code, term, units)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.Name, c.Code, c.Term, c.Units,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetByID retrieves a course by its ID. Returns nil when no such course
// exists.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	c := &model.Course{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, code, term, units, created_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Code, &c.Term, &c.Units, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all courses, most recently created first. The secondary
// sort on id keeps the order stable for courses created in the same instant.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, code, term, units, created_at
		 FROM courses ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Term, &c.Units, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Delete removes a course. Dependent rows go with it via ON DELETE CASCADE.
// Returns false when the course was already absent, which callers treat as
// success.
func (r *CourseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
