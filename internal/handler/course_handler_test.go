package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/courseclip/syllabus-backend/internal/model"
	"github.com/courseclip/syllabus-backend/internal/response"
	"github.com/courseclip/syllabus-backend/internal/service"
)

type stubCourseStore struct {
	byID    map[int64]*model.Course
	list    []model.Course
	deleted []int64
}

func (s *stubCourseStore) GetByID(_ context.Context, id int64) (*model.Course, error) {
	return s.byID[id], nil
}

func (s *stubCourseStore) List(_ context.Context) ([]model.Course, error) {
	return s.list, nil
}

func (s *stubCourseStore) Delete(_ context.Context, id int64) (bool, error) {
	s.deleted = append(s.deleted, id)
	_, ok := s.byID[id]
	return ok, nil
}

type stubEventStore struct {
	next map[int64]*model.Event
}

func (s *stubEventStore) ListByCourse(_ context.Context, _ int64) ([]model.Event, error) {
	return nil, nil
}

func (s *stubEventStore) NextDeadline(_ context.Context, courseID int64) (*model.Event, error) {
	return s.next[courseID], nil
}

type stubLectureStore struct{}

func (stubLectureStore) ListByCourse(_ context.Context, _ int64) ([]model.Lecture, error) {
	return nil, nil
}

type stubGradingStore struct{}

func (stubGradingStore) GetByCourse(_ context.Context, _ int64) (*model.GradingPolicy, error) {
	return nil, nil
}

type stubCoursePolicyStore struct{}

func (stubCoursePolicyStore) GetByCourse(_ context.Context, _ int64) (*model.CoursePolicy, error) {
	return nil, nil
}

func newCourseRouter(courses *stubCourseStore, events *stubEventStore) *gin.Engine {
	svc := service.NewCourseService(
		courses, events, stubLectureStore{}, stubGradingStore{}, stubCoursePolicyStore{},
		nil, 0, zerolog.Nop(),
	)
	h := NewCourseHandler(svc, zerolog.Nop())

	r := gin.New()
	r.GET("/api/v1/courses", h.ListCourses)
	r.GET("/api/v1/courses/:id", h.GetCourse)
	r.DELETE("/api/v1/courses/:id", h.DeleteCourse)
	return r
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestListCoursesWithDeadlines(t *testing.T) {
	due, _ := model.ParseDate("2026-09-12")
	courses := &stubCourseStore{
		list: []model.Course{{ID: 1, Name: "OS", Code: "CS 162", Term: "Fall 2026"}},
	}
	events := &stubEventStore{next: map[int64]*model.Event{
		1: {Name: "HW 1", Type: model.EventHomework, DueDate: &due},
	}}
	r := newCourseRouter(courses, events)

	w := doRequest(r, http.MethodGet, "/api/v1/courses")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var env struct {
		Data struct {
			Courses []struct {
				model.Course
				NextDeadline *struct {
					Name    string `json:"name"`
					DueDate string `json:"due_date"`
				} `json:"next_deadline"`
			} `json:"courses"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(env.Data.Courses))
	}
	nd := env.Data.Courses[0].NextDeadline
	if nd == nil || nd.Name != "HW 1" || nd.DueDate != "2026-09-12" {
		t.Errorf("next_deadline = %+v", nd)
	}
}

func TestListCoursesPagination(t *testing.T) {
	courses := &stubCourseStore{
		list: []model.Course{{ID: 3, Name: "C"}, {ID: 2, Name: "B"}, {ID: 1, Name: "A"}},
	}
	r := newCourseRouter(courses, &stubEventStore{})

	decode := func(t *testing.T, w *httptest.ResponseRecorder) (ids []int64, pag *response.Pagination) {
		t.Helper()
		var env struct {
			Data struct {
				Courses []model.Course `json:"courses"`
			} `json:"data"`
			Pagination *response.Pagination `json:"pagination"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		for _, c := range env.Data.Courses {
			ids = append(ids, c.ID)
		}
		return ids, env.Pagination
	}

	w := doRequest(r, http.MethodGet, "/api/v1/courses?page=1&per_page=2")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	ids, pag := decode(t, w)
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 2 {
		t.Errorf("page 1 ids = %v, want [3 2]", ids)
	}
	if pag == nil || pag.TotalItems != 3 || pag.TotalPages != 2 || pag.Page != 1 || pag.PerPage != 2 {
		t.Errorf("pagination = %+v", pag)
	}

	ids, _ = decode(t, doRequest(r, http.MethodGet, "/api/v1/courses?page=2&per_page=2"))
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("page 2 ids = %v, want [1]", ids)
	}

	// Past the last page: empty list, not an error.
	ids, _ = decode(t, doRequest(r, http.MethodGet, "/api/v1/courses?page=9&per_page=2"))
	if len(ids) != 0 {
		t.Errorf("page 9 ids = %v, want empty", ids)
	}

	// Nonsense params fall back to defaults.
	w = doRequest(r, http.MethodGet, "/api/v1/courses?page=zero&per_page=-4")
	ids, pag = decode(t, w)
	if len(ids) != 3 || pag.Page != 1 {
		t.Errorf("defaulted page = %+v ids = %v", pag, ids)
	}
}

func TestGetCourseStatuses(t *testing.T) {
	courses := &stubCourseStore{byID: map[int64]*model.Course{3: {ID: 3, Name: "Networks"}}}
	r := newCourseRouter(courses, &stubEventStore{})

	if w := doRequest(r, http.MethodGet, "/api/v1/courses/3"); w.Code != http.StatusOK {
		t.Errorf("existing course: status = %d", w.Code)
	}
	w := doRequest(r, http.MethodGet, "/api/v1/courses/99")
	if w.Code != http.StatusNotFound {
		t.Errorf("absent course: status = %d", w.Code)
	}
	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error == nil || env.Error.Code != response.ErrNotFound {
		t.Errorf("error = %+v", env.Error)
	}
	if w := doRequest(r, http.MethodGet, "/api/v1/courses/not-a-number"); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d", w.Code)
	}
}

func TestDeleteCourseAlwaysSucceeds(t *testing.T) {
	courses := &stubCourseStore{byID: map[int64]*model.Course{5: {ID: 5}}}
	r := newCourseRouter(courses, &stubEventStore{})

	if w := doRequest(r, http.MethodDelete, "/api/v1/courses/5"); w.Code != http.StatusOK {
		t.Errorf("existing: status = %d", w.Code)
	}
	// Absent ids delete cleanly too.
	if w := doRequest(r, http.MethodDelete, "/api/v1/courses/12345"); w.Code != http.StatusOK {
		t.Errorf("absent: status = %d", w.Code)
	}
	if len(courses.deleted) != 2 {
		t.Errorf("delete calls = %d, want 2", len(courses.deleted))
	}
}
