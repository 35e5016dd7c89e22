package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/utopialog/internal/config"
	"github.com/utopialog/internal/content"
	"github.com/utopialog/internal/handler"
	"github.com/utopialog/internal/logger"
	"github.com/utopialog/internal/router"
	"github.com/utopialog/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	Addr     string
	NoBackup bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		Long: `Serve the dashboard over HTTP, run the nightly backup and verdict jobs and
reload the policy file when it changes. Stops cleanly on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides LISTEN_ADDR)")
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "disable the scheduled CSV backup")
	return cmd
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *serveOptions) error {
	cfg := rootOpts.cfg
	if opts.Addr != "" {
		cfg.ListenAddr = opts.Addr
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	a, err := openApp(rootOpts, log)
	if err != nil {
		return err
	}
	defer a.Close()

	gin.SetMode(cfg.GinMode)
	api := handler.NewAPI(a.set, content.NewPicker(0), log)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(api, router.Options{SessionSecret: cfg.SessionSecret, Logger: log}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	backupDir := cfg.BackupDir
	if opts.NoBackup {
		backupDir = ""
	}
	sched, err := scheduler.New(cfg.BackupSchedule, backupDir, a.set.Backups, a.set.Dashboard, cfg.Location, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	watcher, err := config.NewPolicyWatcher(cfg.PolicyPath, a.policy, log)
	if err != nil {
		log.Warn("policy watcher unavailable", "error", err)
	} else if err := watcher.Start(gctx); err != nil {
		log.Warn("policy watcher not started", "path", cfg.PolicyPath, "error", err)
		watcher.Stop()
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	sched.Start()
	defer sched.Stop()

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.ListenAddr, "database", cfg.DatabasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
