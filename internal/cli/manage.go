package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dkotenko/inteldocs-cli/internal/core/ports"
)

func (c *cli) uploadCmd() *cobra.Command {
	var converter string
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload documents for processing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]ports.UploadFile, 0, len(args))
			handles := make([]*os.File, 0, len(args))
			defer func() {
				for _, handle := range handles {
					_ = handle.Close()
				}
			}()
			for _, path := range args {
				handle, err := os.Open(path)
				if err != nil {
					return err
				}
				handles = append(handles, handle)
				files = append(files, ports.UploadFile{
					Name: filepath.Base(path),
					Body: handle,
				})
			}

			if converter == "" {
				converter = c.app.Config.DefaultConverter
			}
			receipts, err := c.app.Browser.Upload(cmd.Context(), files, converter)
			if err != nil {
				return err
			}
			for _, receipt := range receipts {
				if receipt.Accepted {
					cmd.Printf("accepted  %s (id %d)\n", receipt.Filename, receipt.ID)
					continue
				}
				cmd.Printf("rejected  %s: %s\n", receipt.Filename, receipt.Detail)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&converter, "converter", "", "markdown converter to use server-side")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Browser.Delete(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("deleted document %d\n", id)
			return nil
		},
	}
}

func (c *cli) retryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Retry processing of a failed document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Browser.Retry(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("retry requested for document %d\n", id)
			return nil
		},
	}
}
