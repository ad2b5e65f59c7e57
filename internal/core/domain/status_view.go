package domain

import "fmt"

// Severity buckets a stage for presentation: the first stage is shown
// muted, everything in flight is informational, the final stage is a
// success state.
type Severity string

const (
	SeverityNeutral Severity = "neutral"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// StatusView is the display projection of a document status: a human
// label, a progress percentage for the stage indicator, and a severity
// bucket. It is derived, never stored.
type StatusView struct {
	Label    string
	Progress int
	Severity Severity
}

// View derives the display projection for a status. Every member of
// the closed status set maps to exactly one view; a code outside the
// set is schema drift and fails rather than rendering blank.
func View(status DocumentStatus) (StatusView, error) {
	switch status {
	case StatusPending:
		return StatusView{Label: "Pending", Progress: 0, Severity: SeverityNeutral}, nil
	case StatusTextExtracting:
		return StatusView{Label: "Text Extracting", Progress: 20, Severity: SeverityInfo}, nil
	case StatusTextExtracted:
		return StatusView{Label: "Text Extracted", Progress: 30, Severity: SeverityInfo}, nil
	case StatusGeneratingSummary:
		return StatusView{Label: "Generating Summary", Progress: 50, Severity: SeverityInfo}, nil
	case StatusSummaryGenerated:
		return StatusView{Label: "Summary Generated", Progress: 70, Severity: SeverityInfo}, nil
	case StatusEmbeddingText:
		return StatusView{Label: "Embedding Text", Progress: 80, Severity: SeverityInfo}, nil
	case StatusEmbeddedText:
		return StatusView{Label: "Embedded Text", Progress: 90, Severity: SeverityInfo}, nil
	case StatusCompleted:
		return StatusView{Label: "Completed", Progress: 100, Severity: SeveritySuccess}, nil
	}
	return StatusView{}, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
}

// Loading reports whether the stage indicator should show an active
// spinner: strictly between the first and last stage. Display only,
// never control flow.
func (v StatusView) Loading() bool {
	return v.Progress > 0 && v.Progress < 100
}
