package ports

import (
	"context"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

// DocumentBrowser is the inbound contract the CLI uses for document
// reads and mutations.
type DocumentBrowser interface {
	List(ctx context.Context) ([]domain.Document, error)
	Get(ctx context.Context, id int64) (*domain.Document, error)
	Raw(ctx context.Context, id int64) (string, error)
	Markdown(ctx context.Context, id int64) (string, error)
	Upload(ctx context.Context, files []UploadFile, converter string) ([]domain.UploadReceipt, error)
	Delete(ctx context.Context, id int64) error
	Retry(ctx context.Context, id int64) error
}

// ChatSubmitter is the inbound contract for one chat session.
type ChatSubmitter interface {
	Submit(ctx context.Context, query string) error
	Messages() []domain.ChatMessage
	Err() string
}
