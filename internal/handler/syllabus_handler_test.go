package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/courseclip/syllabus-backend/internal/extract"
	"github.com/courseclip/syllabus-backend/internal/llm"
	"github.com/courseclip/syllabus-backend/internal/model"
	"github.com/courseclip/syllabus-backend/internal/repository"
	"github.com/courseclip/syllabus-backend/internal/response"
	"github.com/courseclip/syllabus-backend/internal/schema"
	"github.com/courseclip/syllabus-backend/internal/service"
	"github.com/courseclip/syllabus-backend/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type stubNormalizer struct {
	err  error
	last extract.Input
}

func (s *stubNormalizer) Normalize(_ context.Context, in extract.Input) (string, error) {
	s.last = in
	if s.err != nil {
		return "", s.err
	}
	return "normalized", nil
}

type stubExtractor struct{ err error }

func (s *stubExtractor) Extract(_ context.Context, _ string) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`{}`), nil
}

type stubValidator struct{ err error }

func (s *stubValidator) Validate(_ []byte) (*model.ExtractedSyllabus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.ExtractedSyllabus{}, nil
}

type stubStore struct {
	id  int64
	err error
}

func (s *stubStore) SaveSyllabus(_ context.Context, _ *model.ExtractedSyllabus) (int64, error) {
	return s.id, s.err
}

type pipelineStubs struct {
	norm  *stubNormalizer
	extr  *stubExtractor
	val   *stubValidator
	store *stubStore
}

func newIngestRouter(stubs pipelineStubs) *gin.Engine {
	if stubs.norm == nil {
		stubs.norm = &stubNormalizer{}
	}
	if stubs.extr == nil {
		stubs.extr = &stubExtractor{}
	}
	if stubs.val == nil {
		stubs.val = &stubValidator{}
	}
	if stubs.store == nil {
		stubs.store = &stubStore{id: 1}
	}
	svc := service.NewIngestService(stubs.norm, stubs.extr, stubs.val, stubs.store, nil, zerolog.Nop())
	h := NewSyllabusHandler(svc, 1<<20, zerolog.Nop())

	r := gin.New()
	r.POST("/api/v1/syllabi", h.Ingest)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/syllabi", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	return env
}

func TestIngestTextSuccess(t *testing.T) {
	store := &stubStore{id: 42}
	r := newIngestRouter(pipelineStubs{store: store})

	w := postJSON(t, r, `{"text":"CS 162 Operating Systems syllabus body"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	data, _ := env.Data.(map[string]any)
	if data["course_id"] != float64(42) {
		t.Errorf("course_id = %v, want 42", data["course_id"])
	}
}

func TestIngestMultipartFile(t *testing.T) {
	norm := &stubNormalizer{}
	r := newIngestRouter(pipelineStubs{norm: norm})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "syllabus.pdf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("%PDF-1.7 body"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/syllabi", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if norm.last.Filename != "syllabus.pdf" {
		t.Errorf("filename = %q", norm.last.Filename)
	}
	if string(norm.last.Data) != "%PDF-1.7 body" {
		t.Errorf("data = %q", norm.last.Data)
	}
}

func TestIngestMissingTextField(t *testing.T) {
	r := newIngestRouter(pipelineStubs{})

	w := postJSON(t, r, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error == nil || env.Error.Code != response.ErrFileRequired {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestIngestErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		stubs      pipelineStubs
		wantStatus int
		wantCode   response.ErrCode
	}{
		{
			"payload too large",
			pipelineStubs{norm: &stubNormalizer{err: extract.ErrPayloadTooLarge}},
			http.StatusRequestEntityTooLarge, response.ErrPayloadTooLarge,
		},
		{
			"input too short",
			pipelineStubs{norm: &stubNormalizer{err: extract.ErrInputTooShort}},
			http.StatusBadRequest, response.ErrInputTooShort,
		},
		{
			"unsupported type",
			pipelineStubs{norm: &stubNormalizer{err: extract.ErrUnsupportedType}},
			http.StatusUnsupportedMediaType, response.ErrUnsupportedFile,
		},
		{
			"pdf unreadable",
			pipelineStubs{norm: &stubNormalizer{err: extract.ErrExtractionFailed}},
			http.StatusBadGateway, response.ErrExtractionFailed,
		},
		{
			"empty reply",
			pipelineStubs{extr: &stubExtractor{err: llm.ErrEmptyReply}},
			http.StatusBadGateway, response.ErrExtractionEmpty,
		},
		{
			"malformed reply",
			pipelineStubs{extr: &stubExtractor{err: &llm.MalformedError{Raw: []byte("nope")}}},
			http.StatusBadGateway, response.ErrExtractionMalformed,
		},
		{
			"upstream failure",
			pipelineStubs{extr: &stubExtractor{err: llm.ErrUpstream}},
			http.StatusBadGateway, response.ErrExtractionFailed,
		},
		{
			"persistence failure",
			pipelineStubs{store: &stubStore{err: &repository.PersistenceError{Stage: repository.StageEvents, Err: errors.New("dup")}}},
			http.StatusInternalServerError, response.ErrPersistenceFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newIngestRouter(tc.stubs)
			w := postJSON(t, r, `{"text":"long enough body"}`)
			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tc.wantStatus, w.Body.String())
			}
			env := decodeEnvelope(t, w)
			if env.Error == nil || env.Error.Code != tc.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tc.wantCode)
			}
		})
	}
}

func TestIngestSchemaViolationCarriesFields(t *testing.T) {
	verr := &schema.ValidationError{Fields: []schema.FieldError{
		{Path: "/events/0/type", Message: `value must be one of "homework", "test", "project", "quiz"`},
	}}
	r := newIngestRouter(pipelineStubs{val: &stubValidator{err: verr}})

	w := postJSON(t, r, `{"text":"long enough body"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error == nil || env.Error.Code != response.ErrValidationFailed {
		t.Fatalf("error = %+v", env.Error)
	}
	if _, ok := env.Error.Fields["/events/0/type"]; !ok {
		t.Errorf("fields = %v, want entry for /events/0/type", env.Error.Fields)
	}
}
