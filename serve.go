package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kube-rca/perfcheckup/internal/admin"
	"github.com/kube-rca/perfcheckup/internal/config"
	"github.com/kube-rca/perfcheckup/internal/db"
	"github.com/kube-rca/perfcheckup/internal/detector"
	"github.com/kube-rca/perfcheckup/internal/handler"
	"github.com/kube-rca/perfcheckup/internal/querylog"
	"github.com/kube-rca/perfcheckup/internal/server"
	"github.com/kube-rca/perfcheckup/internal/service"
	"github.com/kube-rca/perfcheckup/internal/store"
	"github.com/kube-rca/perfcheckup/internal/system"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Server.Port = port
		}
		if profile, _ := cmd.Flags().GetString("profile"); profile != "" {
			cfg.Checkup.Profile = profile
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().String("port", "", "listen port (overrides PORT)")
		c.Flags().String("profile", "", "threshold profile: demo or production (overrides CHECKUP_PROFILE)")
	}
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config) error {
	thresholds, err := config.LoadThresholds(cfg.Checkup)
	if err != nil {
		return err
	}
	log.Printf("[Checkup] Profile=%s thresholds=%+v verbose=%t", cfg.Checkup.Profile, thresholds, cfg.Checkup.VerboseQueries)

	memory, err := system.NewProcessMemory()
	if err != nil {
		return fmt.Errorf("failed to open process memory sampler: %w", err)
	}

	pg, err := db.NewPostgres(ctx, cfg.Postgres, &querylog.Tracer{})
	if err != nil {
		return fmt.Errorf("failed to connect postgres: %w", err)
	}
	defer pg.Close()

	authService, err := service.NewAuthService(pg, cfg.Auth)
	if err != nil {
		return err
	}
	if err := prepareDatabase(ctx, pg, authService, cfg); err != nil {
		return err
	}

	transients, closeTransients, err := openTransientStore(ctx, cfg, pg)
	if err != nil {
		return err
	}
	defer closeTransients()

	nonces, err := service.NewNonceService(cfg.Auth.JWTSecret, cfg.Checkup.NonceTTL)
	if err != nil {
		return err
	}
	checkupService, err := service.NewCheckupService(detector.New(thresholds), transients, nonces, cfg.Checkup.DismissTTL)
	if err != nil {
		return err
	}

	menu := admin.NewMenu()
	router := server.NewRouter(cfg, server.Deps{
		Auth:    handler.NewAuthHandler(authService),
		Admin:   handler.NewAdminHandler(authService, pg, menu),
		Checkup: handler.NewCheckupHandler(checkupService, menu, cfg.Checkup.AjaxPrefix),
		Tokens:  authService,
		Memory:  memory,
	})

	log.Printf("[Server] Listening on :%s", cfg.Server.Port)
	return router.Run(":" + cfg.Server.Port)
}

// prepareDatabase creates missing tables and the bootstrap administrator.
func prepareDatabase(ctx context.Context, pg *db.Postgres, authService *service.AuthService, cfg config.Config) error {
	if err := authService.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := pg.EnsureTransientSchema(ctx); err != nil {
		return err
	}
	return authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
}

func openTransientStore(ctx context.Context, cfg config.Config, pg *db.Postgres) (store.TransientStore, func(), error) {
	switch strings.ToLower(cfg.Checkup.TransientBackend) {
	case "", "memory":
		log.Printf("[Checkup] Dismissals stored in memory")
		return store.NewMemoryStore(), func() {}, nil
	case "postgres":
		log.Printf("[Checkup] Dismissals stored in postgres")
		return pg, func() {}, nil
	case "redis":
		rs, err := store.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		log.Printf("[Checkup] Dismissals stored in redis (%s)", cfg.Redis.Addr)
		return rs, func() {
			if err := rs.Close(); err != nil {
				log.Printf("[Checkup] Failed to close redis: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown TRANSIENT_BACKEND %q", cfg.Checkup.TransientBackend)
	}
}
