package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.sr.ht/~jakintosh/requestline/internal/notify"
	"git.sr.ht/~jakintosh/requestline/internal/store"
	"git.sr.ht/~jakintosh/requestline/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		listen  string
		dbPath  string
		webhook string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if webhook != "" {
				cfg.WebhookURL = webhook
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			st, err := store.NewSQLiteStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			var notifier web.Notifier
			if cfg.WebhookURL != "" {
				notifier = notify.NewWebhook(cfg.WebhookURL, logger)
			}

			srv := &http.Server{
				Addr:    cfg.Listen,
				Handler: web.NewServer(st, web.ServerOptions{Logger: logger, Notifier: notifier}),
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			logger.Info("starting server", "listen", cfg.Listen, "db", cfg.DBPath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "bind address (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (overrides config)")
	cmd.Flags().StringVar(&webhook, "webhook-url", "", "chat webhook URL (overrides config)")
	return cmd
}
