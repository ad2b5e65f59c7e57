package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

func printDocuments(cmd *cobra.Command, docs []domain.Document) error {
	if len(docs) == 0 {
		cmd.Println("no documents")
		return nil
	}
	for _, doc := range docs {
		line, err := documentRow(doc)
		if err != nil {
			return err
		}
		cmd.Println(line)
	}
	return nil
}

// documentRow renders one list entry. Failure is shown independently
// of stage progress: a failed document keeps its last known stage and
// percentage next to the failure marker.
func documentRow(doc domain.Document) (string, error) {
	view, err := domain.View(doc.Status)
	if err != nil {
		return "", err
	}

	marker := ""
	switch {
	case doc.IsFailed:
		marker = "  FAILED"
	case view.Loading():
		marker = "  …"
	}
	return fmt.Sprintf("%6d  %s%3d%%  %-20s%s  %s",
		doc.ID, progressBar(view.Progress, 20), view.Progress, view.Label, marker, doc.Title), nil
}

func printDocumentDetail(cmd *cobra.Command, doc domain.Document) error {
	view, err := domain.View(doc.Status)
	if err != nil {
		return err
	}
	cmd.Printf("id:          %d\n", doc.ID)
	cmd.Printf("title:       %s\n", doc.Title)
	if doc.Description != "" {
		cmd.Printf("description: %s\n", doc.Description)
	}
	cmd.Printf("status:      %s (%d%%)\n", view.Label, view.Progress)
	cmd.Printf("failed:      %v\n", doc.IsFailed)
	cmd.Printf("chunks:      %d\n", doc.ChunkCount)
	cmd.Printf("created:     %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("updated:     %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "] "
}
