package printing

import (
	"context"
	"errors"
)

// PDFRenderer converts a complete HTML document to PDF
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// ErrPDFDisabled is returned when PDF output is requested without a renderer
var ErrPDFDisabled = errors.New("pdf rendering is disabled")

// RenderError represents a failure while rendering an invoice
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout  = "RENDER_TIMEOUT"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeInvalidHTML    = "INVALID_HTML"
	ErrCodeTemplateFailed = "TEMPLATE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}
