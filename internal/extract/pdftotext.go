package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Runner executes an external command and returns its stdout. Abstracted so
// tests can run without poppler installed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w (stderr: %s)", name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// PdftotextExtractor extracts embedded text from PDF bytes by shelling out
// to poppler's pdftotext, the same way scanned-document pipelines do. The
// binary is an external capability with a pass/fail contract.
type PdftotextExtractor struct {
	bin    string
	tmpDir string
	runner Runner
	log    zerolog.Logger
}

// NewPdftotextExtractor creates a PDF text extractor. bin defaults to
// "pdftotext" when empty.
func NewPdftotextExtractor(bin string, log zerolog.Logger) *PdftotextExtractor {
	if bin == "" {
		bin = "pdftotext"
	}
	return &PdftotextExtractor{
		bin:    bin,
		tmpDir: os.TempDir(),
		runner: execRunner{},
		log:    log.With().Str("component", "pdftotext").Logger(),
	}
}

// ExtractText writes the PDF to a temp file, runs pdftotext in layout mode,
// and returns the extracted text.
func (e *PdftotextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	path := filepath.Join(e.tmpDir, uuid.New().String()+".pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}
	defer os.Remove(path)

	// "-" sends text to stdout; -layout preserves column structure, which
	// keeps syllabus schedule tables readable for the extraction model.
	out, err := e.runner.Run(ctx, e.bin, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		e.log.Warn().Err(err).Int("pdf_bytes", len(data)).Msg("pdftotext failed")
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
