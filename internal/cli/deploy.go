package cli

import (
	"github.com/spf13/cobra"

	"github.com/multisig-actions/actions-deploy/internal/cli/render"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the contract to a network and record its address",
		Long: `Deploy the contract to the selected network and record its address in the
registry. The registry is loaded before anything is sent, so a corrupt
registry aborts the run. Only the entry for the target chain changes.

Exit codes:
  0  deployed and recorded
  1  usage or configuration error
  2  nothing was sent to the chain, safe to re-run
  3  a transaction was sent but not confirmed as a deployment
  4  deployed but the registry was not updated`,
		Example: `  actions-deploy deploy -n bsc-testnet
  actions-deploy deploy -n bsc-testnet --mode market --target-value 10 --currency usd
  actions-deploy deploy -n localhost --amount 0.00003 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{DryRun: dryRun})
			if err != nil {
				return err
			}

			explorer := ""
			if app.Config.Network != nil {
				explorer = app.Config.Network.ExplorerURL
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), explorer).Render(result)
		},
	}

	addFundingFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Resolve the funding amount without deploying")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().String("artifact", "", "Contract artifact (Hardhat or Foundry JSON)")
	cmd.Flags().String("registry-format", "", "Registry layout to write: flat or envelope")
	cmd.Flags().Duration("confirm-timeout", 0, "How long to wait for the deployment receipt (default 5m)")

	return cmd
}

// addFundingFlags registers the flags that shape the constructor amount
func addFundingFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "Funding mode: fixed or market")
	cmd.Flags().String("amount", "", "Native amount in fixed mode (default 0.00003)")
	cmd.Flags().String("target-value", "", "Fiat value to fund in market mode (default 10)")
	cmd.Flags().String("currency", "", "Fiat currency in market mode (default usd)")
	cmd.Flags().String("rounding", "", "Rounding in market mode: truncate, ceil or nearest")
}
