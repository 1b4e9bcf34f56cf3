package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/courseclip/syllabus-backend/internal/config"
	"github.com/courseclip/syllabus-backend/internal/extract"
	"github.com/courseclip/syllabus-backend/internal/model"
)

// Normalizer turns an uploaded artifact into plain text.
type Normalizer interface {
	Normalize(ctx context.Context, in extract.Input) (string, error)
}

// Extractor performs the single outbound structured-extraction call.
type Extractor interface {
	Extract(ctx context.Context, text string) (json.RawMessage, error)
}

// SchemaValidator enforces the extraction contract on the raw reply.
type SchemaValidator interface {
	Validate(raw []byte) (*model.ExtractedSyllabus, error)
}

// SyllabusStore persists a validated record atomically.
type SyllabusStore interface {
	SaveSyllabus(ctx context.Context, rec *model.ExtractedSyllabus) (int64, error)
}

// IngestService runs the syllabus ingestion pipeline: normalize the
// artifact, call the extraction service, validate its reply, persist the
// record. Each request is one sequential pipeline; a failure at any step is
// terminal for the request and nothing is retried.
type IngestService struct {
	normalizer Normalizer
	extractor  Extractor
	validator  SchemaValidator
	store      SyllabusStore
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewIngestService creates an IngestService. rdb may be nil, which disables
// cache invalidation (tests, CLI runs).
func NewIngestService(
	normalizer Normalizer,
	extractor Extractor,
	validator SchemaValidator,
	store SyllabusStore,
	rdb *redis.Client,
	log zerolog.Logger,
) *IngestService {
	return &IngestService{
		normalizer: normalizer,
		extractor:  extractor,
		validator:  validator,
		store:      store,
		rdb:        rdb,
		log:        log.With().Str("component", "ingest_service").Logger(),
	}
}

// Ingest processes one uploaded syllabus and returns the new course
// identifier. Errors preserve the kind of the failing stage so callers can
// distinguish caller-fixable input problems from extraction, validation,
// and persistence failures.
func (s *IngestService) Ingest(ctx context.Context, in extract.Input) (int64, error) {
	text, err := s.normalizer.Normalize(ctx, in)
	if err != nil {
		return 0, err
	}

	raw, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return 0, err
	}

	rec, err := s.validator.Validate(raw)
	if err != nil {
		return 0, err
	}

	id, err := s.store.SaveSyllabus(ctx, rec)
	if err != nil {
		return 0, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, config.CacheKey.CourseDeadlinesKey()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("deadline cache invalidation failed")
		}
	}

	s.log.Info().
		Int64("course_id", id).
		Str("course", rec.Course.Code).
		Int("events", len(rec.Events)).
		Int("lectures", len(rec.Lectures)).
		Msg("syllabus ingested")
	return id, nil
}
