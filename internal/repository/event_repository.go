package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/courseclip/syllabus-backend/internal/model"
)

// EventRepository handles event data access.
type EventRepository struct {
	db Querier
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db Querier) *EventRepository {
	return &EventRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *EventRepository) WithTx(tx pgx.Tx) *EventRepository {
	return &EventRepository{db: tx}
}

// CreateBatch inserts all events in one round trip. A nil or empty slice is
// a no-op, not an error.
func (r *EventRepository) CreateBatch(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, e := range events {
		b.Queue(
			`INSERT INTO events (course_id, type, name, release_date, due_date, weight)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.CourseID, e.Type, e.Name, e.ReleaseDate, e.DueDate, e.Weight,
		)
	}

	results := r.db.SendBatch(ctx, b)
	defer results.Close()
	for range events {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListByCourse retrieves all events of a course. Events are unordered at
// storage time; id order is returned for stable output.
func (r *EventRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, course_id, type, name, release_date, due_date, weight
		 FROM events WHERE course_id = $1 ORDER BY id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.CourseID, &e.Type, &e.Name, &e.ReleaseDate, &e.DueDate, &e.Weight); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// NextDeadline returns the event with the earliest due date on or after the
// current calendar date, or nil when the course has no qualifying event.
// An event due today still counts as upcoming. Ties on due date resolve to
// the lowest id so the choice is deterministic.
func (r *EventRepository) NextDeadline(ctx context.Context, courseID int64) (*model.Event, error) {
	e := &model.Event{}
	err := r.db.QueryRow(ctx,
		`SELECT id, course_id, type, name, release_date, due_date, weight
		 FROM events
		 WHERE course_id = $1 AND due_date IS NOT NULL AND due_date >= CURRENT_DATE
		 ORDER BY due_date ASC, id ASC
		 LIMIT 1`, courseID,
	).Scan(&e.ID, &e.CourseID, &e.Type, &e.Name, &e.ReleaseDate, &e.DueDate, &e.Weight)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
