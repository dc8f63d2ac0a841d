package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hour-sync/core/database"
	"hour-sync/feature/eboekhouden"
	"hour-sync/feature/hours"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fetchYear int

// fetchCmd is the parent command for fetch operations.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch events from one side without synchronizing",
	Long:  `Fetch events from the database or from e-boekhouden and print them as JSON.`,
}

// fetchDBCmd prints the database events for a year.
var fetchDBCmd = &cobra.Command{
	Use:   "db",
	Short: "Fetch hour registrations from the database",
	RunE:  runFetchDB,
}

// fetchRemoteCmd prints the e-boekhouden events for a year.
var fetchRemoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Fetch hour registrations from e-boekhouden",
	RunE:  runFetchRemote,
}

func init() {
	fetchCmd.PersistentFlags().IntVar(&fetchYear, "year", time.Now().Year(), "Year to fetch")
	fetchCmd.AddCommand(fetchDBCmd)
	fetchCmd.AddCommand(fetchRemoteCmd)
	RootCmd.AddCommand(fetchCmd)
}

func runFetchDB(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	source := hours.NewDBSource(db, l, cfg.Hours)
	events, err := source.Events(context.Background(), fetchYear)
	if err != nil {
		return err
	}

	l.Info("fetched events from database",
		zap.Int("year", fetchYear), zap.Int("count", len(events)))
	return printJSON(events)
}

func runFetchRemote(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	client, err := eboekhouden.New(cfg.Remote, l)
	if err != nil {
		return fmt.Errorf("failed to create e-boekhouden client: %w", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.Login(ctx); err != nil {
		return err
	}

	events, err := client.FetchEvents(ctx, fetchYear)
	if err != nil {
		return err
	}

	l.Info("fetched events from e-boekhouden",
		zap.Int("year", fetchYear), zap.Int("count", len(events)))
	return printJSON(events)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
