package cli

import (
	"errors"
	"strings"

	"git.sr.ht/~jakintosh/requestline/internal/session"
	"git.sr.ht/~jakintosh/requestline/internal/tui"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactive terminal client",
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return errors.New("--name is required: requests carry the submitter's display name")
			}

			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			api, err := app.apiClient()
			if err != nil {
				return err
			}
			return tui.Run(api, name, session.WithInterval(cfg.PollInterval()))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name attached to submitted requests")
	return cmd
}
