package cmd

import (
	"context"
	"fmt"
	"time"

	"hour-sync/core/archive"
	"hour-sync/core/config"
	"hour-sync/core/database"
	"hour-sync/core/logger"
	"hour-sync/feature/eboekhouden"
	"hour-sync/feature/hours"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Flags for the sync command
	syncYear   int
	syncDryRun bool
)

// syncCmd runs one synchronization pass.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize hour registrations into e-boekhouden",
	Long: `Synchronize hour registrations for one year into e-boekhouden.

Loads events from the database, exports the current e-boekhouden state,
reconciles the two and submits missing registrations.

Examples:
  # Report what would change, without touching e-boekhouden
  hour-sync sync --dry-run

  # Synchronize the current year
  hour-sync sync

  # Synchronize a specific year
  hour-sync sync --year 2023`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncYear, "year", time.Now().Year(), "Year to synchronize")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Classify only, submit nothing")
	RootCmd.AddCommand(syncCmd)
}

// setup loads configuration and builds the root logger, the shared prologue
// of every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)

	return cfg, l, nil
}

// deps holds the run-independent collaborators. They are built once and
// shared across runs; only the browser client is single-use.
type deps struct {
	db        *gorm.DB
	validator *hours.Validator
	arc       *archive.Archive
}

// buildDeps connects to the database and prepares validator and archive.
// The caller owns the connection pool and must call close().
func buildDeps(cfg *config.Config, l *zap.Logger) (*deps, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	validator, err := hours.NewValidator(cfg.Hours.SchemaPath)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	var arc *archive.Archive
	if cfg.Archive.Enabled {
		store, err := archive.NewClient(cfg.Archive)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to create archive client: %w", err)
		}
		arc = archive.New(store, cfg.Archive, l)
	}

	return &deps{db: db, validator: validator, arc: arc}, nil
}

func (d *deps) close(l *zap.Logger) {
	if err := database.Close(d.db); err != nil {
		l.Warn("failed to close database pool", zap.Error(err))
	}
}

// buildService wires a synchronization service around a fresh browser
// client. The service closes the client itself at the end of its run.
func buildService(cfg *config.Config, l *zap.Logger, d *deps) (*hours.Service, error) {
	client, err := eboekhouden.New(cfg.Remote, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create e-boekhouden client: %w", err)
	}

	source := hours.NewDBSource(d.db, l, cfg.Hours)
	return hours.NewService(source, client, d.validator, d.arc, l, cfg.Hours), nil
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	d, err := buildDeps(cfg, l)
	if err != nil {
		return err
	}
	defer d.close(l)

	svc, err := buildService(cfg, l, d)
	if err != nil {
		return err
	}

	_, err = svc.Run(context.Background(), syncYear, syncDryRun)
	return err
}
