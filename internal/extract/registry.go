// Package extract provides a capability registry of text extractors keyed
// by file extension. Each extractor knows how to pull plain text out of one
// family of formats; new formats register without touching the ingestion
// pipeline. Formats that need heavier machinery (PDF, OCR) are expected to
// be registered by the host application.
package extract

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/veldtlabs/docvault/internal/domain"
)

// Extractor converts one document format into plain text.
type Extractor interface {
	// Extensions lists the lowercase file extensions (with leading dot)
	// this extractor handles.
	Extensions() []string
	// Extract reads the raw document and returns its text content.
	Extract(r io.Reader) (string, error)
}

// Registry dispatches extraction by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry builds a registry from the given extractors. Later extractors
// win on extension conflicts.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// DefaultRegistry returns a registry with the built-in extractors.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewPlaintext(),
		NewCSV(),
		NewDOCX(),
	)
}

// Register adds an extractor for all of its declared extensions.
func (r *Registry) Register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Supports reports whether an extension has a registered extractor.
func (r *Registry) Supports(ext string) bool {
	_, ok := r.byExt[normalizeExt(ext)]
	return ok
}

// Extract pulls text from a reader using the extractor registered for ext.
// An unregistered extension fails with an extraction error.
func (r *Registry) Extract(ext string, reader io.Reader) (string, error) {
	e, ok := r.byExt[normalizeExt(ext)]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	text, err := e.Extract(reader)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtraction, "extraction failed", err)
	}
	return text, nil
}

// ExtractFile extracts text from a file on disk, dispatching on its
// extension.
func (r *Registry) ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeExtraction, "cannot open document", err)
	}
	defer f.Close()
	return r.Extract(filepath.Ext(path), f)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
