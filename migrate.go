package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/kube-rca/perfcheckup/internal/config"
	"github.com/kube-rca/perfcheckup/internal/db"
	"github.com/kube-rca/perfcheckup/internal/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables, the bootstrap administrator and purge expired dismissals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Load()

		pg, err := db.NewPostgres(ctx, cfg.Postgres, nil)
		if err != nil {
			return err
		}
		defer pg.Close()

		authService, err := service.NewAuthService(pg, cfg.Auth)
		if err != nil {
			return err
		}
		if err := prepareDatabase(ctx, pg, authService, cfg); err != nil {
			return err
		}

		purged, err := pg.PurgeExpiredTransients(ctx)
		if err != nil {
			return err
		}
		log.Printf("[Migrate] Done (expired transients purged=%d)", purged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
