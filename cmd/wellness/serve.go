package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pbaille/wellness/internal/api"
	"github.com/pbaille/wellness/internal/scheduler"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			interval, err := cfg.CheckInterval()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			checker := scheduler.NewProgressChecker(svc, interval)
			if err := checker.Start(); err != nil {
				return err
			}
			defer checker.Stop()

			server := api.New(s, svc, addr,
				api.WithCompanionDefaults(cfg.Companion.Provider, cfg.Companion.APIKey),
			)
			if err := server.Run(ctx); err != nil {
				return err
			}
			log.Println("Shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}
