// Package cli is the command tree of the inteldocs terminal client.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dkotenko/inteldocs-cli/internal/bootstrap"
	"github.com/dkotenko/inteldocs-cli/internal/config"
)

type cli struct {
	configPath string
	app        *bootstrap.App
}

func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "inteldocs",
		Short:         "Terminal client for the inteldocs document backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			explicit := path != ""
			if !explicit {
				path = config.DefaultPath()
			}
			cfg, err := config.Load(path, explicit)
			if err != nil {
				return err
			}
			c.app = bootstrap.New(cfg)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ~/.config/inteldocs/config.yaml)")

	root.AddCommand(
		c.listCmd(),
		c.watchCmd(),
		c.showCmd(),
		c.uploadCmd(),
		c.deleteCmd(),
		c.retryCmd(),
		c.searchCmd(),
		c.chatCmd(),
	)
	return root
}
