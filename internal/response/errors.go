package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Input ─────────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrFileRequired   ErrCode = "FILE_REQUIRED"

	// ─── Ingestion pipeline ────────────────────────────────────────────
	ErrInputTooShort       ErrCode = "INPUT_TOO_SHORT"
	ErrPayloadTooLarge     ErrCode = "PAYLOAD_TOO_LARGE"
	ErrUnsupportedFile     ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrExtractionFailed    ErrCode = "EXTRACTION_FAILED"
	ErrExtractionEmpty     ErrCode = "EXTRACTION_EMPTY"
	ErrExtractionMalformed ErrCode = "EXTRACTION_MALFORMED"
	ErrValidationFailed    ErrCode = "VALIDATION_FAILED"
	ErrPersistenceFailed   ErrCode = "PERSISTENCE_FAILED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Input ─────────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrFileRequired:
		return "A syllabus file or text body is required."

	// ─── Ingestion pipeline ────────────────────────────────────────────
	case ErrInputTooShort:
		return "The syllabus text is too short to process."
	case ErrPayloadTooLarge:
		return "The uploaded document exceeds the size limit."
	case ErrUnsupportedFile:
		return "Unsupported document type. Upload a PDF or plain text."
	case ErrExtractionFailed:
		return "The document could not be read or the extraction service did not respond."
	case ErrExtractionEmpty:
		return "The extraction service returned an empty reply."
	case ErrExtractionMalformed:
		return "The extraction service returned an unparseable reply."
	case ErrValidationFailed:
		return "The extracted syllabus did not match the expected structure."
	case ErrPersistenceFailed:
		return "Saving the syllabus failed. Nothing was stored."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
