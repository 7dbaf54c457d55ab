package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/api"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.ListenAddr = serveAddr
		}

		svc, err := newProfileService(cfg, logger)
		if err != nil {
			return err
		}
		active := svc.Active()
		logger.Info("active profile", "id", active.ID, "name", active.Name, "rpc", active.RPCURL)

		srv := api.NewServer(svc, logger, api.WithRateLimit(cfg.RateLimit, cfg.RateBurst))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.ListenAndServe(ctx, cfg); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: $EVOLUTE_ADDR or :8080)")
}
