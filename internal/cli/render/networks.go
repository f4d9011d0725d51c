package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render implements Renderer
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in networks.toml")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	width := lo.Max(lo.Map(result.Networks, func(n usecase.NetworkStatus, _ int) int { return len(n.Name) }))

	for _, network := range result.Networks {
		if network.Error != nil {
			fmt.Fprintf(r.out, "  ❌ %-*s  %s\n", width, network.Name, color.New(color.FgRed).Sprintf("Error: %v", network.Error))
			continue
		}
		asset := network.Asset
		if asset == "" {
			asset = color.New(color.Faint).Sprint("fixed mode only")
		}
		fmt.Fprintf(r.out, "  ✅ %-*s  Chain ID: %-10d %s\n", width, network.Name, network.ChainID, asset)
	}

	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
