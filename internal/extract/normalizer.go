package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// MinTextChars is the minimum trimmed length a normalized syllabus must
// have. Anything shorter is treated as empty or unreadable.
const MinTextChars = 50

// Sentinel errors for input rejection. Callers branch on these with
// errors.Is; each maps to a distinct caller-visible error kind.
var (
	ErrPayloadTooLarge  = errors.New("payload exceeds maximum artifact size")
	ErrInputTooShort    = errors.New("normalized text is too short to be a syllabus")
	ErrExtractionFailed = errors.New("document text extraction failed")
	ErrUnsupportedType  = errors.New("unsupported document type")
)

// TextExtractor turns binary document content into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Input is an uploaded artifact: either Data with a media-type/filename tag,
// or Text supplied directly.
type Input struct {
	Data        []byte
	ContentType string
	Filename    string
	Text        string
}

// Normalizer turns an uploaded artifact into a single plain-text string,
// enforcing the size cap before extraction and the minimum usable length
// after it. It has no side effects beyond decoding.
type Normalizer struct {
	maxBytes int64
	pdf      TextExtractor
	log      zerolog.Logger
}

// NewNormalizer creates a Normalizer with the given artifact size cap.
func NewNormalizer(maxBytes int64, pdf TextExtractor, log zerolog.Logger) *Normalizer {
	return &Normalizer{
		maxBytes: maxBytes,
		pdf:      pdf,
		log:      log.With().Str("component", "normalizer").Logger(),
	}
}

// Normalize produces the plain text handed to the extraction client.
func (n *Normalizer) Normalize(ctx context.Context, in Input) (string, error) {
	if in.Data == nil {
		if int64(len(in.Text)) > n.maxBytes {
			return "", fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(in.Text), n.maxBytes)
		}
		return n.checkLength(in.Text)
	}

	if int64(len(in.Data)) > n.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(in.Data), n.maxBytes)
	}

	if isPDF(in.ContentType, in.Filename) {
		text, err := n.pdf.ExtractText(ctx, in.Data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		if n := trimmedLen(text); n < MinTextChars {
			// A PDF that yields almost no text is unreadable, not short input.
			return "", fmt.Errorf("%w: extracted only %d characters", ErrExtractionFailed, n)
		}
		n.log.Debug().Int("pdf_bytes", len(in.Data)).Int("text_chars", len(text)).Msg("pdf text extracted")
		return text, nil
	}

	if isText(in.ContentType, in.Filename) {
		if !utf8.Valid(in.Data) {
			return "", fmt.Errorf("%w: text artifact is not valid UTF-8", ErrUnsupportedType)
		}
		return n.checkLength(string(in.Data))
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, in.ContentType)
}

func (n *Normalizer) checkLength(text string) (string, error) {
	if l := trimmedLen(text); l < MinTextChars {
		return "", fmt.Errorf("%w: %d characters (min %d)", ErrInputTooShort, l, MinTextChars)
	}
	return text, nil
}

// trimmedLen counts characters, not bytes, so multibyte text is measured
// the same as ASCII.
func trimmedLen(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}

func isPDF(contentType, filename string) bool {
	if strings.EqualFold(strings.TrimSpace(contentType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

func isText(contentType, filename string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if strings.HasPrefix(ct, "text/") || ct == "" {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".txt" || ext == ".md"
}
