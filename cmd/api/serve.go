package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-shop-api/internal/adapters/auth/bcrypt"
	"pet-shop-api/internal/adapters/auth/jwt"
	pg "pet-shop-api/internal/adapters/storage/postgres"
	"pet-shop-api/internal/platform/config"
	"pet-shop-api/internal/platform/logger"
	"pet-shop-api/internal/router"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().String("port", "", "puerto HTTP (env PORT)")
	cmd.Flags().String("db-driver", "", "postgres | memory (env DB_DRIVER)")
	bindFlags(v, cmd, map[string]string{
		"port":      "port",
		"db_driver": "db-driver",
	})
	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func newLogger(cfg config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
}

func serve(ctx context.Context, cfg config.Config) error {
	log := newLogger(cfg)

	opts := router.Options{
		Logger: log,
		Hasher: bcrypt.NewHasher(cfg.BcryptCost),
		Tokens: jwt.NewSigner(jwt.Config{
			Secret: cfg.JWTSecret,
			TTL:    cfg.JWTTTL,
			Issuer: cfg.AppName,
		}),
	}

	if !cfg.HasSigningSecret() {
		// Se arranca igual: login y rutas protegidas responden 500 hasta que se configure.
		log.Warn("JWT_SECRET is not set; login and protected routes will fail", nil)
	}

	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage; data is lost on restart", nil)
		opts.Repositories = router.MemoryRepositories()

	default:
		db, err := pg.Open(cfg.DB.PostgresDSN())
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		if cfg.DB.AutoMigrate {
			if _, err := pg.NewMigrator(db, log).Up(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		repos := pg.NewRepositories(db)
		opts.Repositories = &router.Repositories{
			Attendants: repos.Attendants,
			Clients:    repos.Clients,
			Pets:       repos.Pets,
		}
		opts.HealthCheck = db.PingContext
		log.Info("connected to postgres", map[string]any{"host": cfg.DB.Host, "database": cfg.DB.Name})
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
