package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/courseclip/syllabus-backend/internal/config"
	"github.com/courseclip/syllabus-backend/internal/model"
)

// ErrCourseNotFound is returned when a course identifier resolves to no row.
var ErrCourseNotFound = errors.New("course not found")

// listFanout bounds the concurrent per-course deadline lookups.
const listFanout = 8

// CourseStore is the course data access the service depends on.
type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// EventStore is the event data access the service depends on.
type EventStore interface {
	ListByCourse(ctx context.Context, courseID int64) ([]model.Event, error)
	NextDeadline(ctx context.Context, courseID int64) (*model.Event, error)
}

// LectureStore is the lecture data access the service depends on.
type LectureStore interface {
	ListByCourse(ctx context.Context, courseID int64) ([]model.Lecture, error)
}

// GradingPolicyStore is the grading-policy data access the service depends on.
type GradingPolicyStore interface {
	GetByCourse(ctx context.Context, courseID int64) (*model.GradingPolicy, error)
}

// CoursePolicyStore is the course-policy data access the service depends on.
type CoursePolicyStore interface {
	GetByCourse(ctx context.Context, courseID int64) (*model.CoursePolicy, error)
}

// CourseService serves the read and delete paths over persisted syllabi.
type CourseService struct {
	courses  CourseStore
	events   EventStore
	lectures LectureStore
	grading  GradingPolicyStore
	policies CoursePolicyStore
	rdb      *redis.Client
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewCourseService creates a CourseService. rdb may be nil, which disables
// list caching.
func NewCourseService(
	courses CourseStore,
	events EventStore,
	lectures LectureStore,
	grading GradingPolicyStore,
	policies CoursePolicyStore,
	rdb *redis.Client,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courses:  courses,
		events:   events,
		lectures: lectures,
		grading:  grading,
		policies: policies,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		log:      log.With().Str("component", "course_service").Logger(),
	}
}

// GetCourse returns the full composite record of one course: the course row
// plus all four dependent sets.
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*model.FullCourseRecord, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	grading, err := s.grading.GetByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	lectures, err := s.lectures.ListByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	policy, err := s.policies.GetByCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if events == nil {
		events = []model.Event{}
	}
	if lectures == nil {
		lectures = []model.Lecture{}
	}
	return &model.FullCourseRecord{
		Course:   *course,
		Grading:  grading,
		Events:   events,
		Lectures: lectures,
		Policy:   policy,
	}, nil
}

// ListWithNextDeadline returns every course, most recent first, each paired
// with its nearest event due today or later. Courses without a qualifying
// event carry a nil deadline. If any per-course lookup fails the whole call
// fails; partial results are never served.
func (s *CourseService) ListWithNextDeadline(ctx context.Context) ([]model.CourseWithDeadline, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, config.CacheKey.CourseDeadlinesKey()).Bytes(); err == nil {
			var out []model.CourseWithDeadline
			if err := json.Unmarshal(cached, &out); err == nil {
				return out, nil
			}
			// Unreadable cache entry; recompute below.
		}
	}

	out, err := s.computeDeadlineList(ctx)
	if err != nil {
		return nil, err
	}
	s.storeDeadlineCache(ctx, out)
	return out, nil
}

// RefreshDeadlineCache recomputes the deadline list and rewrites the cache,
// bypassing any cached value. The deadline worker calls this periodically so
// the dashboard read path stays warm across day boundaries.
func (s *CourseService) RefreshDeadlineCache(ctx context.Context) error {
	out, err := s.computeDeadlineList(ctx)
	if err != nil {
		return err
	}
	s.storeDeadlineCache(ctx, out)
	return nil
}

func (s *CourseService) computeDeadlineList(ctx context.Context) ([]model.CourseWithDeadline, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	// Per-course lookups touch disjoint data, so they fan out; order is
	// preserved by writing into the indexed slot.
	out := make([]model.CourseWithDeadline, len(courses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listFanout)
	for i, course := range courses {
		i, course := i, course
		g.Go(func() error {
			next, err := s.events.NextDeadline(gctx, course.ID)
			if err != nil {
				return err
			}
			item := model.CourseWithDeadline{Course: course}
			if next != nil {
				item.NextDeadline = &model.NextDeadline{
					Name:        next.Name,
					Type:        next.Type,
					DueDate:     *next.DueDate,
					ReleaseDate: next.ReleaseDate,
				}
			}
			out[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CourseService) storeDeadlineCache(ctx context.Context, list []model.CourseWithDeadline) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(list)
	if err != nil {
		s.log.Warn().Err(err).Msg("deadline cache marshal failed")
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.CourseDeadlinesKey(), payload, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("deadline cache write failed")
	}
}

// DeleteCourse removes a course and, through the cascading foreign keys,
// every dependent grading policy, event, lecture, and course policy row.
// Deleting an absent identifier is not an error.
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	found, err := s.courses.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		s.log.Debug().Int64("course_id", id).Msg("delete of absent course")
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, config.CacheKey.CourseDeadlinesKey()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("deadline cache invalidation failed")
		}
	}
	return nil
}
