package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
	"github.com/dkotenko/inteldocs-cli/internal/core/usecase"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents with their processing state",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := c.app.Browser.List(cmd.Context())
			if err != nil {
				return err
			}
			return printDocuments(cmd, docs)
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var stopWhenIdle bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the document list until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []usecase.WatcherOption
			if stopWhenIdle {
				opts = append(opts, usecase.WithStopWhenIdle())
			}
			watcher := c.app.NewWatcher(opts...)
			return watcher.Watch(cmd.Context(), func(docs []domain.Document) {
				c.app.Metrics.ObservePollCycle()
				cmd.Println()
				if err := printDocuments(cmd, docs); err != nil {
					cmd.PrintErrln(err)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&stopWhenIdle, "stop-when-idle", false, "stop once every document is completed or failed")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	var raw, markdown bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one document, its raw file, or its markdown rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			switch {
			case raw:
				content, err := c.app.Browser.Raw(ctx, id)
				if err != nil {
					return err
				}
				cmd.Println(content)
			case markdown:
				content, err := c.app.Browser.Markdown(ctx, id)
				if err != nil {
					return err
				}
				cmd.Println(content)
			default:
				doc, err := c.app.Browser.Get(ctx, id)
				if err != nil {
					return err
				}
				return printDocumentDetail(cmd, *doc)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored original content")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the markdown rendering")
	cmd.MarkFlagsMutuallyExclusive("raw", "markdown")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: document id %q", domain.ErrInvalidInput, arg)
	}
	return id, nil
}
