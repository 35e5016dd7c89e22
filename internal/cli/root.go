package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/utopialog/internal/config"
	"github.com/utopialog/internal/db"
	"github.com/utopialog/internal/logger"
	"github.com/utopialog/internal/service"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
	Policy   string

	cfg config.AppConfig
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the utopia CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "utopia",
		Short: "Project Utopia - personal mission dashboard",
		Long:  "Track daily output, evaluate it against the mission policy and serve the dashboard.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.cfg = config.Load()
			if opts.Database != "" {
				opts.cfg.DatabasePath = opts.Database
			}
			if opts.Policy != "" {
				opts.cfg.PolicyPath = opts.Policy
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "sqlite database path (overrides DATABASE_PATH)")
	cmd.PersistentFlags().StringVar(&opts.Policy, "policy", "", "policy file (overrides POLICY_PATH)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// app is the opened database plus the services over it.
type app struct {
	cfg    config.AppConfig
	gdb    *gorm.DB
	policy *config.PolicyStore
	set    *service.Set
	log    *logger.Logger
}

func (o *RootOptions) logger() (*logger.Logger, error) {
	if !o.Verbose {
		return logger.Nop(), nil
	}
	return logger.New(o.cfg.LogMode)
}

func openApp(opts *RootOptions, log *logger.Logger) (*app, error) {
	cfg := opts.cfg
	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy %s: %w", cfg.PolicyPath, err)
	}

	gdb, err := db.Open(cfg.DatabasePath, gormlogger.Default.LogMode(gormlogger.Silent))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}

	store := config.NewPolicyStore(policy)
	clock := func() time.Time { return cfg.Today() }
	return &app{
		cfg:    cfg,
		gdb:    gdb,
		policy: store,
		set:    service.NewSet(gdb, store, clock, cfg.Location, log),
		log:    log,
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
