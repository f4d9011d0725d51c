package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multisig-actions/actions-deploy/internal/cli/render"
	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// NewRegistryCmd creates the registry command group
func NewRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect recorded deployment addresses",
	}

	cmd.AddCommand(newRegistryListCmd())
	cmd.AddCommand(newRegistryGetCmd())
	return cmd
}

func newRegistryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every recorded address",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			renderer, err := render.NewRegistryRenderer(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}

			result, err := app.ShowRegistry.Run(cmd.Context(), usecase.ShowRegistryParams{})
			if err != nil {
				return err
			}
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringP("format", "f", render.FormatTable, "Output format: table, json or yaml")
	return cmd
}

func newRegistryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <chain-id>",
		Short: "Print the address recorded for a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			chainID, err := domain.ParseChainID(args[0])
			if err != nil {
				return err
			}

			result, err := app.ShowRegistry.Run(cmd.Context(), usecase.ShowRegistryParams{ChainID: chainID})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Entries[0].Address)
			return nil
		},
	}
}
