package cmd

import (
	"context"
	"fmt"

	"hour-sync/feature/eboekhouden"

	"github.com/spf13/cobra"
)

// loginCmd verifies the configured e-boekhouden credentials.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify the e-boekhouden credentials",
	Long:  `Log in to e-boekhouden once and exit. Useful to verify credentials and browser setup before scheduling runs.`,
	RunE:  runLogin,
}

func init() {
	RootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
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

	if err := client.Login(context.Background()); err != nil {
		return err
	}

	l.Info("login succeeded")
	return nil
}
