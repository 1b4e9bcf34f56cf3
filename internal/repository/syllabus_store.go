package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/courseclip/syllabus-backend/internal/model"
)

// Persistence stages, in write order. The course row must exist before any
// dependent row references it.
const (
	StageCourse        = "course"
	StageGradingPolicy = "grading_policy"
	StageEvents        = "events"
	StageLectures      = "lectures"
	StageCoursePolicy  = "course_policy"
	StageCommit        = "commit"
)

// PersistenceError identifies which write stage failed and why. The
// surrounding transaction has already been rolled back when the caller sees
// one, so no partial state survives.
type PersistenceError struct {
	Stage string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist syllabus: stage %s: %v", e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// TxBeginner starts transactions; *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SyllabusStore writes a validated syllabus record across the five entities
// in dependency order, inside a single transaction, so ingestion is
// all-or-nothing from the caller's view.
type SyllabusStore struct {
	db       TxBeginner
	courses  *CourseRepository
	grading  *GradingPolicyRepository
	events   *EventRepository
	lectures *LectureRepository
	policies *CoursePolicyRepository
	log      zerolog.Logger
}

// NewSyllabusStore creates a SyllabusStore over the given repositories.
func NewSyllabusStore(
	db TxBeginner,
	courses *CourseRepository,
	grading *GradingPolicyRepository,
	events *EventRepository,
	lectures *LectureRepository,
	policies *CoursePolicyRepository,
	log zerolog.Logger,
) *SyllabusStore {
	return &SyllabusStore{
		db:       db,
		courses:  courses,
		grading:  grading,
		events:   events,
		lectures: lectures,
		policies: policies,
		log:      log.With().Str("component", "syllabus_store").Logger(),
	}
}

// SaveSyllabus persists the record and returns the generated course
// identifier. Empty event or lecture lists are skipped silently. Any stage
// failure rolls the whole transaction back and surfaces a *PersistenceError
// naming the stage.
func (s *SyllabusStore) SaveSyllabus(ctx context.Context, rec *model.ExtractedSyllabus) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, &PersistenceError{Stage: StageCourse, Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer tx.Rollback(ctx)

	course := &model.Course{
		Name:  rec.Course.Name,
		Code:  rec.Course.Code,
		Term:  rec.Course.Term,
		Units: rec.Course.Units,
	}
	if err := s.courses.WithTx(tx).Create(ctx, course); err != nil {
		return 0, &PersistenceError{Stage: StageCourse, Err: err}
	}

	grading := &model.GradingPolicy{
		CourseID: course.ID,
		Homework: rec.Grading.Homework,
		Tests:    rec.Grading.Tests,
		Project:  rec.Grading.Project,
		Quizzes:  rec.Grading.Quizzes,
	}
	if err := s.grading.WithTx(tx).Create(ctx, grading); err != nil {
		return 0, &PersistenceError{Stage: StageGradingPolicy, Err: err}
	}

	events, err := toEvents(course.ID, rec.Events)
	if err != nil {
		return 0, &PersistenceError{Stage: StageEvents, Err: err}
	}
	if err := s.events.WithTx(tx).CreateBatch(ctx, events); err != nil {
		return 0, &PersistenceError{Stage: StageEvents, Err: err}
	}

	lectures, err := toLectures(course.ID, rec.Lectures)
	if err != nil {
		return 0, &PersistenceError{Stage: StageLectures, Err: err}
	}
	if err := s.lectures.WithTx(tx).CreateBatch(ctx, lectures); err != nil {
		return 0, &PersistenceError{Stage: StageLectures, Err: err}
	}

	policy := &model.CoursePolicy{
		CourseID:      course.ID,
		LateDaysTotal: rec.Policies.LateDaysTotal,
		LateDaysPerHW: rec.Policies.LateDaysPerHW,
		GenAIAllowed:  rec.Policies.GenAIAllowed,
		GenAINotes:    rec.Policies.GenAINotes,
	}
	if err := s.policies.WithTx(tx).Create(ctx, policy); err != nil {
		return 0, &PersistenceError{Stage: StageCoursePolicy, Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &PersistenceError{Stage: StageCommit, Err: err}
	}

	s.log.Info().
		Int64("course_id", course.ID).
		Int("events", len(events)).
		Int("lectures", len(lectures)).
		Msg("syllabus persisted")
	return course.ID, nil
}

func toEvents(courseID int64, in []model.ExtractedEvent) ([]model.Event, error) {
	events := make([]model.Event, 0, len(in))
	for i, e := range in {
		release, err := parseOptionalDate(e.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("event %d release_date: %w", i, err)
		}
		due, err := parseOptionalDate(e.DueDate)
		if err != nil {
			return nil, fmt.Errorf("event %d due_date: %w", i, err)
		}
		events = append(events, model.Event{
			CourseID:    courseID,
			Type:        e.Type,
			Name:        e.Name,
			ReleaseDate: release,
			DueDate:     due,
			Weight:      e.Weight,
		})
	}
	return events, nil
}

func toLectures(courseID int64, in []model.ExtractedLecture) ([]model.Lecture, error) {
	lectures := make([]model.Lecture, 0, len(in))
	for i, l := range in {
		date, err := parseOptionalDate(l.Date)
		if err != nil {
			return nil, fmt.Errorf("lecture %d date: %w", i, err)
		}
		topics := l.Topics
		if topics == nil {
			topics = []string{}
		}
		lectures = append(lectures, model.Lecture{
			CourseID:      courseID,
			LectureNumber: l.LectureNumber,
			Title:         l.Title,
			Date:          date,
			Topics:        topics,
			Description:   l.Description,
		})
	}
	return lectures, nil
}

func parseOptionalDate(s *string) (*model.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := model.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
