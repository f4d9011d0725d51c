package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multisig-actions/actions-deploy/internal/cli/render"
	"github.com/multisig-actions/actions-deploy/internal/domain"
)

// NewQuoteCmd creates the quote command
func NewQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Show the constructor amount a deployment would use",
		Example: `  actions-deploy quote -n bsc-testnet --mode market
  actions-deploy quote --chain-id 137 --mode market --target-value 25 --currency eur`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var chainID domain.ChainID
			if raw, _ := cmd.Flags().GetString("chain-id"); raw != "" {
				chainID, err = domain.ParseChainID(raw)
				if err != nil {
					return err
				}
			} else if app.Config.Network != nil {
				chainID = app.Config.Network.ChainID
			} else {
				return fmt.Errorf("either --network or --chain-id is required")
			}

			funding, err := app.ResolveFunding.Run(cmd.Context(), chainID, app.Config.Funding)
			if err != nil {
				return err
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), "").RenderFunding(funding)
		},
	}

	addFundingFlags(cmd)
	cmd.Flags().String("chain-id", "", "Quote for a chain ID instead of a configured network")

	return cmd
}
