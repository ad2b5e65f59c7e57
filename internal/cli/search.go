package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
	"github.com/dkotenko/inteldocs-cli/internal/core/usecase"
)

func (c *cli) searchCmd() *cobra.Command {
	var title string
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search indexed document content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := c.app.Searcher.Search(cmd.Context(), domain.SearchQuery{
				Query: strings.Join(args, " "),
				Title: title,
				Limit: limit,
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				cmd.Println("no matches")
				return nil
			}
			printSearchResults(cmd, results)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "filter by document title substring")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results")
	return cmd
}

func printSearchResults(cmd *cobra.Command, results []domain.SearchResult) {
	// rendered strictly in the order received; ranking is the backend's
	for _, result := range results {
		cmd.Printf("%s (id %d)  score %s\n",
			result.DocumentTitle, result.DocumentID, usecase.FormatSimilarity(result.Similarity))
		for _, chunk := range result.Chunks {
			cmd.Printf("  [%d] %s  %s\n",
				chunk.ChunkIndex, usecase.FormatSimilarity(chunk.Similarity), firstLine(chunk.Content))
		}
	}
}

func firstLine(content string) string {
	content = strings.TrimSpace(content)
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	const max = 120
	runes := []rune(content)
	if len(runes) > max {
		return string(runes[:max]) + "…"
	}
	return content
}
