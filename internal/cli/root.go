// Package cli wires the cobra command tree: the server, the interactive
// watch client, and one-shot scripting commands.
package cli

import (
	"git.sr.ht/~jakintosh/requestline/internal/client"
	"git.sr.ht/~jakintosh/requestline/internal/config"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	APIBase    string
}

// loadConfig resolves settings with flag > env > file > default precedence.
func (a *App) loadConfig() (config.Config, error) {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if a.APIBase != "" {
		cfg.APIBase = a.APIBase
	}
	return cfg, nil
}

// apiClient builds the HTTP client the client-side commands share.
func (a *App) apiClient() (*client.Client, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.APIBase), nil
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "requestline",
		Short:        "Shared request-tracking list",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "requestline.yaml", "config file path")
	cmd.PersistentFlags().StringVar(&app.APIBase, "api", "", "API base URL (overrides config)")

	cmd.AddCommand(
		newServeCmd(app),
		newWatchCmd(app),
		newListCmd(app),
		newAddCmd(app),
		newStatusCmd(app),
		newMoveCmd(app),
		newRemoveCmd(app),
	)
	return cmd
}
