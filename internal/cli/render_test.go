package cli

import (
	"strings"
	"testing"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

func TestDocumentRowShowsStageAndProgress(t *testing.T) {
	row, err := documentRow(domain.Document{ID: 3, Title: "report.pdf", Status: domain.StatusGeneratingSummary})
	if err != nil {
		t.Fatalf("documentRow() error = %v", err)
	}
	for _, want := range []string{"report.pdf", "Generating Summary", " 50%", "…"} {
		if !strings.Contains(row, want) {
			t.Fatalf("row %q missing %q", row, want)
		}
	}
}

func TestDocumentRowFailureKeepsStage(t *testing.T) {
	row, err := documentRow(domain.Document{ID: 8, Title: "bad.docx", Status: domain.StatusEmbeddingText, IsFailed: true})
	if err != nil {
		t.Fatalf("documentRow() error = %v", err)
	}
	if !strings.Contains(row, "FAILED") {
		t.Fatalf("row %q misses the failure marker", row)
	}
	// failure does not erase where processing stopped
	if !strings.Contains(row, "Embedding Text") || !strings.Contains(row, " 80%") {
		t.Fatalf("row %q lost the last known stage", row)
	}
	if strings.Contains(row, "…") {
		t.Fatalf("failed row %q still shows the in-progress marker", row)
	}
}

func TestDocumentRowTerminalHasNoMarker(t *testing.T) {
	row, err := documentRow(domain.Document{ID: 1, Title: "done.md", Status: domain.StatusCompleted})
	if err != nil {
		t.Fatalf("documentRow() error = %v", err)
	}
	if strings.Contains(row, "FAILED") || strings.Contains(row, "…") {
		t.Fatalf("completed row %q carries a marker", row)
	}
	if !strings.Contains(row, "100%") {
		t.Fatalf("completed row %q not at 100%%", row)
	}
}

func TestProgressBarFill(t *testing.T) {
	cases := []struct {
		percent int
		want    string
	}{
		{0, "[--------------------] "},
		{50, "[##########----------] "},
		{100, "[####################] "},
	}
	for _, tc := range cases {
		if got := progressBar(tc.percent, 20); got != tc.want {
			t.Fatalf("progressBar(%d, 20) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}

func TestFirstLineTruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("é", 150)
	got := firstLine(long)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("firstLine did not mark truncation: %q", got)
	}
	if strings.ContainsRune(got, '�') {
		t.Fatalf("firstLine split a rune: %q", got)
	}

	multi := "first line\nsecond line"
	if got := firstLine(multi); got != "first line" {
		t.Fatalf("firstLine(%q) = %q", multi, got)
	}
}
