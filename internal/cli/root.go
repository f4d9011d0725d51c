package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multisig-actions/actions-deploy/internal/adapters/progress"
	"github.com/multisig-actions/actions-deploy/internal/app"
	"github.com/multisig-actions/actions-deploy/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// session owns what PersistentPreRunE creates so it can be released after
// the command finishes, even when it fails.
type session struct {
	app      *app.App
	progress *progress.SpinnerProgressReporter
	cancel   context.CancelFunc
}

func (s *session) close() error {
	if s.progress != nil {
		s.progress.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.app != nil {
		return s.app.Close()
	}
	return nil
}

// newRootCmd creates the root command and the session its pre-run fills in
func newRootCmd() (*cobra.Command, *session) {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "actions-deploy",
		Short: "Deploy the MultiSigActions contract and track its address per chain",
		Long: `actions-deploy deploys the MultiSigActions contract to a configured network,
funding its constructor with a fixed native amount or a fiat value converted
at the current market price, and records the deployed address per chain in
actions_addresses.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				var err error
				projectRoot, err = config.FindProjectRoot()
				if err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			s.progress = progress.NewSpinnerProgressReporter()

			appInstance, err := app.InitApp(v, s.progress)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			s.app = appInstance

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				ctx, s.cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from networks.toml (e.g. bsc-testnet)")
	rootCmd.PersistentFlags().String("project-root", "", "Project directory (defaults to the nearest directory with networks.toml)")
	rootCmd.PersistentFlags().String("networks-file", "", "Networks file (default networks.toml)")
	rootCmd.PersistentFlags().String("registry", "", "Address registry file (default actions_addresses.json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Overall command timeout (0 disables)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	quoteCmd := NewQuoteCmd()
	quoteCmd.GroupID = "main"
	rootCmd.AddCommand(quoteCmd)

	registryCmd := NewRegistryCmd()
	registryCmd.GroupID = "management"
	rootCmd.AddCommand(registryCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, s
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
