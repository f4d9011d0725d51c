package cli

import (
	"github.com/spf13/cobra"

	"github.com/multisig-actions/actions-deploy/internal/cli/render"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks from networks.toml",
		Long: `List all networks configured in networks.toml with their chain IDs and
whether market funding is available for their native asset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	return cmd
}
