package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
	"github.com/dkotenko/inteldocs-cli/internal/core/ports"
)

// Searcher is a pass-through projection over the backend's similarity
// search: no re-ranking, no merging, chunk order preserved as received.
type Searcher struct {
	gateway ports.SearchGateway
}

func NewSearcher(gateway ports.SearchGateway) *Searcher {
	return &Searcher{gateway: gateway}
}

func (s *Searcher) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	query.Query = strings.TrimSpace(query.Query)
	if query.Query == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}
	query.Title = strings.TrimSpace(query.Title)
	results, err := s.gateway.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return results, nil
}

// FormatSimilarity renders a 0..1 similarity score as a percentage with
// one decimal place.
func FormatSimilarity(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
