package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrEmptyInput reports a concatenation request with no source documents.
var ErrEmptyInput = errors.New("at least one source document is required")

// MalformedDocumentError reports an input that failed PDF parsing, naming
// its 1-based position in the request.
type MalformedDocumentError struct {
	Position int
	Err      error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("document %d is malformed: %v", e.Position, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

var configOnce sync.Once

func mergeConfig() *model.Configuration {
	// pdfcpu persists a config dir by default; a server has no use for it.
	configOnce.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// Merge concatenates PDF byte streams in input order: all pages of the
// first stream, then the second, and so on. Every input is validated up
// front so a malformed document is reported by position instead of
// surfacing as a mid-merge failure.
func Merge(inputs [][]byte) ([]byte, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyInput
	}

	conf := mergeConfig()
	readers := make([]io.ReadSeeker, len(inputs))
	for i, input := range inputs {
		rs := bytes.NewReader(input)
		if err := api.Validate(rs, conf); err != nil {
			return nil, &MalformedDocumentError{Position: i + 1, Err: err}
		}
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		readers[i] = rs
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, conf); err != nil {
		return nil, fmt.Errorf("merge documents: %w", err)
	}
	return out.Bytes(), nil
}

// PageCount returns the number of pages in a PDF byte stream.
func PageCount(input []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(input), mergeConfig())
	if err != nil {
		return 0, err
	}
	return count, nil
}
