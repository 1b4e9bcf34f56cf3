package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/courseclip/syllabus-backend/internal/model"
)

// GradingPolicyRepository handles the 1:1 grading-policy rows.
type GradingPolicyRepository struct {
	db Querier
}

// NewGradingPolicyRepository creates a new GradingPolicyRepository.
func NewGradingPolicyRepository(db Querier) *GradingPolicyRepository {
	return &GradingPolicyRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *GradingPolicyRepository) WithTx(tx pgx.Tx) *GradingPolicyRepository {
	return &GradingPolicyRepository{db: tx}
}

// Create inserts the grading policy of a course.
func (r *GradingPolicyRepository) Create(ctx context.Context, p *model.GradingPolicy) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO grading_policies (course_id, homework, tests, project, quizzes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.CourseID, p.Homework, p.Tests, p.Project, p.Quizzes,
	).Scan(&p.ID)
}

// GetByCourse retrieves a course's grading policy, nil when absent.
func (r *GradingPolicyRepository) GetByCourse(ctx context.Context, courseID int64) (*model.GradingPolicy, error) {
	p := &model.GradingPolicy{}
	err := r.db.QueryRow(ctx,
		`SELECT id, course_id, homework, tests, project, quizzes
		 FROM grading_policies WHERE course_id = $1`, courseID,
	).Scan(&p.ID, &p.CourseID, &p.Homework, &p.Tests, &p.Project, &p.Quizzes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CoursePolicyRepository handles the 1:1 administrative-policy rows.
type CoursePolicyRepository struct {
	db Querier
}

// NewCoursePolicyRepository creates a new CoursePolicyRepository.
func NewCoursePolicyRepository(db Querier) *CoursePolicyRepository {
	return &CoursePolicyRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *CoursePolicyRepository) WithTx(tx pgx.Tx) *CoursePolicyRepository {
	return &CoursePolicyRepository{db: tx}
}

// Create inserts the course policy of a course.
func (r *CoursePolicyRepository) Create(ctx context.Context, p *model.CoursePolicy) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO course_policies (course_id, late_days_total, late_days_per_hw, genai_allowed, genai_notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.CourseID, p.LateDaysTotal, p.LateDaysPerHW, p.GenAIAllowed, p.GenAINotes,
	).Scan(&p.ID)
}

// GetByCourse retrieves a course's administrative policy, nil when absent.
func (r *CoursePolicyRepository) GetByCourse(ctx context.Context, courseID int64) (*model.CoursePolicy, error) {
	p := &model.CoursePolicy{}
	err := r.db.QueryRow(ctx,
		`SELECT id, course_id, late_days_total, late_days_per_hw, genai_allowed, genai_notes
		 FROM course_policies WHERE course_id = $1`, courseID,
	).Scan(&p.ID, &p.CourseID, &p.LateDaysTotal, &p.LateDaysPerHW, &p.GenAIAllowed, &p.GenAINotes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
