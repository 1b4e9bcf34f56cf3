package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/courseclip/syllabus-backend/internal/extract"
	"github.com/courseclip/syllabus-backend/internal/llm"
	"github.com/courseclip/syllabus-backend/internal/repository"
	"github.com/courseclip/syllabus-backend/internal/response"
	"github.com/courseclip/syllabus-backend/internal/schema"
	"github.com/courseclip/syllabus-backend/internal/service"
	"github.com/courseclip/syllabus-backend/internal/validator"
)

// SyllabusHandler handles syllabus ingestion requests.
type SyllabusHandler struct {
	ingestService *service.IngestService
	maxBytes      int64
	log           zerolog.Logger
}

// NewSyllabusHandler creates a new SyllabusHandler.
func NewSyllabusHandler(ingestService *service.IngestService, maxBytes int64, log zerolog.Logger) *SyllabusHandler {
	return &SyllabusHandler{
		ingestService: ingestService,
		maxBytes:      maxBytes,
		log:           log.With().Str("component", "syllabus_handler").Logger(),
	}
}

// IngestTextRequest is the JSON payload for pasted syllabus text.
type IngestTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// Ingest godoc
// POST /api/v1/syllabi
// Accepts either a multipart "file" part (PDF or text) or a JSON body with
// a "text" field, runs the ingestion pipeline, and returns the new course id.
func (h *SyllabusHandler) Ingest(c *gin.Context) {
	in, ok := h.readInput(c)
	if !ok {
		return
	}

	courseID, err := h.ingestService.Ingest(c.Request.Context(), in)
	if err != nil {
		h.failIngest(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course_id": courseID})
}

func (h *SyllabusHandler) readInput(c *gin.Context) (extract.Input, bool) {
	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()

		// Reject oversize uploads before buffering the whole body.
		if header.Size > h.maxBytes {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrPayloadTooLarge)
			return extract.Input{}, false
		}
		data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return extract.Input{}, false
		}
		return extract.Input{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
			Filename:    header.Filename,
		}, true
	}

	var req IngestTextRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrFileRequired, fields)
		return extract.Input{}, false
	}
	return extract.Input{Text: req.Text}, true
}

// failIngest translates pipeline errors into the response envelope, keeping
// each failure kind machine-distinguishable.
func (h *SyllabusHandler) failIngest(c *gin.Context, err error) {
	var (
		validationErr  *schema.ValidationError
		malformedErr   *llm.MalformedError
		persistenceErr *repository.PersistenceError
	)

	switch {
	case errors.Is(err, extract.ErrPayloadTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrPayloadTooLarge)
	case errors.Is(err, extract.ErrInputTooShort):
		response.Fail(c, http.StatusBadRequest, response.ErrInputTooShort)
	case errors.Is(err, extract.ErrUnsupportedType):
		response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
	case errors.Is(err, extract.ErrExtractionFailed):
		response.Fail(c, http.StatusBadGateway, response.ErrExtractionFailed)
	case errors.Is(err, llm.ErrEmptyReply):
		response.Fail(c, http.StatusBadGateway, response.ErrExtractionEmpty)
	case errors.As(err, &malformedErr):
		response.Fail(c, http.StatusBadGateway, response.ErrExtractionMalformed)
	case errors.Is(err, llm.ErrUpstream):
		response.Fail(c, http.StatusBadGateway, response.ErrExtractionFailed)
	case errors.As(err, &validationErr):
		fields := make(map[string]string, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			path := f.Path
			if path == "" {
				path = "/"
			}
			fields[path] = f.Message
		}
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidationFailed, fields)
	case errors.As(err, &persistenceErr):
		h.log.Error().Err(err).Str("stage", persistenceErr.Stage).Msg("syllabus persistence failed")
		response.FailWithFields(c, http.StatusInternalServerError, response.ErrPersistenceFailed,
			map[string]string{"stage": persistenceErr.Stage})
	default:
		h.log.Error().Err(err).Msg("syllabus ingestion failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
