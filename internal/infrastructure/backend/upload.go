package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
	"github.com/dkotenko/inteldocs-cli/internal/core/ports"
)

// Upload sends all files in one multipart request under the repeated
// "files" field. The backend answers with a per-file receipt list; a
// 207 means some files were accepted and some were not, and the
// receipts carry which.
func (c *Client) Upload(ctx context.Context, files []ports.UploadFile, converter string) ([]domain.UploadReceipt, error) {
	var receipts []domain.UploadReceipt
	err := c.run(ctx, "upload_documents", mutationClassifier, func(ctx context.Context) error {
		var err error
		receipts, err = c.uploadOnce(ctx, files, converter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func (c *Client) uploadOnce(ctx context.Context, files []ports.UploadFile, converter string) ([]domain.UploadReceipt, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, file := range files {
		part, err := writer.CreateFormFile("files", file.Name)
		if err != nil {
			return nil, fmt.Errorf("build upload form: %w", err)
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			return nil, fmt.Errorf("read upload file %s: %w", file.Name, err)
		}
	}
	if converter != "" {
		if err := writer.WriteField("markdown_converter", converter); err != nil {
			return nil, fmt.Errorf("build upload form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/documents/upload", &body, writer.FormDataContentType(), "upload documents")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []uploadReceiptPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	receipts := make([]domain.UploadReceipt, 0, len(payload))
	for _, p := range payload {
		receipts = append(receipts, p.toDomain())
	}
	return receipts, nil
}

type uploadReceiptPayload struct {
	Status   string          `json:"status"`
	ID       int64           `json:"id"`
	Filename string          `json:"filename"`
	Errors   json.RawMessage `json:"errors"`
}

func (p uploadReceiptPayload) toDomain() domain.UploadReceipt {
	receipt := domain.UploadReceipt{
		ID:       p.ID,
		Filename: p.Filename,
		Accepted: p.Status == "success",
	}
	if !receipt.Accepted && len(p.Errors) > 0 {
		receipt.Detail = string(p.Errors)
	}
	return receipt
}
