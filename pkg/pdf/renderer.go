// Package pdf defines the contract for rendering weekly report documents.
// Actual rendering happens in an external document service; this package only
// carries the interface and a placeholder for deployments without one.
package pdf

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured indicates no rendering backend is wired in.
var ErrNotConfigured = errors.New("pdf renderer not configured")

// ReportDocument is the data handed to the renderer for one submission.
type ReportDocument struct {
	StudentName         string
	WeekNumber          int
	TasksCompleted      string
	Reflections         string
	SupportingMaterials string
	SubmittedAt         time.Time
	DueDate             time.Time
	Status              string
	Feedback            string
	AttachmentNames     []string
}

// Renderer produces a PDF for a weekly report submission.
type Renderer interface {
	RenderSubmission(ctx context.Context, document ReportDocument) ([]byte, error)
}

// Unconfigured is a Renderer placeholder that logs the request and reports
// ErrNotConfigured.
type Unconfigured struct {
	logger zerolog.Logger
}

// NewUnconfigured builds the placeholder renderer.
func NewUnconfigured(logger zerolog.Logger) *Unconfigured {
	return &Unconfigured{logger: logger.With().Str("component", "pdf_renderer").Logger()}
}

// RenderSubmission always fails with ErrNotConfigured.
func (r *Unconfigured) RenderSubmission(_ context.Context, document ReportDocument) ([]byte, error) {
	r.logger.Debug().
		Int("week_number", document.WeekNumber).
		Str("student", document.StudentName).
		Msg("document rendering requested without a configured backend")

	return nil, ErrNotConfigured
}
