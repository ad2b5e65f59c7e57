package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

func (c *cli) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat over your documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := &chatPrinter{out: cmd.OutOrStdout()}
			session := c.app.NewChatSession(printer.render)
			printer.messages = session.Messages

			cmd.Println("Ask a question about your documents. Empty line or Ctrl-D to quit.")
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 64*1024), 1024*1024)

			for {
				fmt.Fprint(cmd.OutOrStdout(), "> ")
				if !scanner.Scan() {
					break
				}
				query := strings.TrimSpace(scanner.Text())
				if query == "" {
					break
				}

				// a turn is cancellable without killing the REPL
				turnCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				err := session.Submit(turnCtx, query)
				stop()
				switch {
				case err == nil:
					fmt.Fprintln(cmd.OutOrStdout())
				case errors.Is(err, context.Canceled):
					fmt.Fprintln(cmd.OutOrStdout(), "\n(cancelled)")
				case domain.IsKind(err, domain.ErrInvalidInput):
					// nothing submitted, nothing to show
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "\nerror: %s\n", session.Err())
				}
				if cmd.Context().Err() != nil {
					break
				}
			}
			return scanner.Err()
		},
	}
}

// chatPrinter turns transcript snapshots into terminal output. The
// session reports every mutation; the printer emits only what has not
// been printed yet, so a streaming answer appears incrementally even
// though each snapshot carries the whole prefix.
type chatPrinter struct {
	out      io.Writer
	messages func() []domain.ChatMessage

	mu      sync.Mutex
	printed map[string]int
}

func (p *chatPrinter) render() {
	if p.messages == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.printed == nil {
		p.printed = make(map[string]int)
	}

	transcript := p.messages()
	for _, msg := range transcript {
		if msg.Role != domain.RoleAssistant {
			p.printed[msg.ID] = len(msg.Content)
			continue
		}
		done, seen := p.printed[msg.ID]
		if !seen && msg.Phase == domain.PhasePending {
			p.printed[msg.ID] = 0
			continue
		}
		if len(msg.Content) > done {
			fmt.Fprint(p.out, msg.Content[done:])
			p.printed[msg.ID] = len(msg.Content)
		}
	}
}
