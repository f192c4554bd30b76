// Package extraction turns receipt images into bill line items. The Gemini
// implementation calls the Generative Language REST API; the ledger treats
// this package as an external collaborator and never depends on how the
// items were produced.
package extraction

import (
	"context"
	"fmt"

	"github.com/newtown/billsplitter/internal/models"
)

// Extractor extracts line items from a receipt image. Implementations must
// tolerate unreadable receipts by returning an empty list; errors are
// reserved for the call itself failing (network, API, decode).
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) ([]models.ExtractedItem, error)
}

// ExtractionError reports a failed extraction call.
type ExtractionError struct {
	Stage string // "request", "decode" or "response"
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction %s failed: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Disabled is the Extractor used when no API key is configured. Every call
// fails, which surfaces on the bill as the usual extraction-error placeholder.
type Disabled struct{}

func (Disabled) Extract(context.Context, []byte, string) ([]models.ExtractedItem, error) {
	return nil, &ExtractionError{Stage: "request", Err: fmt.Errorf("receipt extraction is not configured")}
}

// Stub is a canned Extractor for tests.
type Stub struct {
	Items []models.ExtractedItem
	Err   error
}

func (s *Stub) Extract(context.Context, []byte, string) ([]models.ExtractedItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Items, nil
}
