package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/courseclip/syllabus-backend/internal/response"
	"github.com/courseclip/syllabus-backend/internal/service"
)

// CourseHandler handles course read and delete endpoints.
type CourseHandler struct {
	courseService *service.CourseService
	log           zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		log:           log.With().Str("component", "course_handler").Logger(),
	}
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ListCourses godoc
// GET /api/v1/courses?page=1&per_page=20
// Lists courses, most recent first, each paired with its next deadline.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	page, perPage := pageParams(c)

	courses, err := h.courseService.ListWithNextDeadline(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("course list failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	total := len(courses)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"courses": courses[start:end]}, pagination)
}

// pageParams reads page/per_page query params, clamping to sane bounds.
func pageParams(c *gin.Context) (page, perPage int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// GetCourse godoc
// GET /api/v1/courses/:id
// Returns the full course record with all dependent sets.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	record, err := h.courseService.GetCourse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Int64("course_id", id).Msg("course fetch failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, record)
}

// DeleteCourse godoc
// DELETE /api/v1/courses/:id
// Deletes a course and all dependent rows. Deleting an absent id succeeds.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.courseService.DeleteCourse(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Int64("course_id", id).Msg("course delete failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "course deleted"})
}
