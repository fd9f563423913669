package cli

import (
	"fmt"
	"strconv"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the request list in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := app.apiClient()
			if err != nil {
				return err
			}
			requests, err := api.List()
			if err != nil {
				return err
			}
			for _, r := range requests {
				flag := " "
				if r.Priority {
					flag = "!"
				}
				meta := ""
				if r.Year != 0 {
					meta += fmt.Sprintf(" (%d)", r.Year)
				}
				if r.Type != "" {
					meta += " [" + r.Type + "]"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%4d %s %-11s %s%s (by %s)\n",
					r.ID, flag, r.Status, r.Text, meta, r.SubmittedBy)
			}
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var (
		name     string
		year     int
		reqType  string
		priority bool
	)

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Submit a new request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := app.apiClient()
			if err != nil {
				return err
			}
			id, err := api.Create(domain.NewRequest{
				Text:        args[0],
				SubmittedBy: name,
				Priority:    priority,
				Year:        year,
				Type:        reqType,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created request %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name of the submitter")
	cmd.Flags().IntVar(&year, "year", 0, "year metadata")
	cmd.Flags().StringVar(&reqType, "type", "", "type metadata")
	cmd.Flags().BoolVar(&priority, "priority", false, "flag the request as priority")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <pending|in-progress|completed>",
		Short: "Set a request's workflow state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, err := app.apiClient()
			if err != nil {
				return err
			}
			return api.SetStatus(id, domain.Status(args[1]))
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <position>",
		Short: "Set a single request's sort position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			position, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			api, err := app.apiClient()
			if err != nil {
				return err
			}
			return api.SetSortPosition(id, position)
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, err := app.apiClient()
			if err != nil {
				return err
			}
			return api.Delete(id)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid request id %q", s)
	}
	return id, nil
}
