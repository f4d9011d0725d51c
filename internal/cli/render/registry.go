package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// Output formats for registry listings
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// RegistryRenderer renders registry entries
type RegistryRenderer struct {
	out    io.Writer
	format string
}

// NewRegistryRenderer creates a new registry renderer
func NewRegistryRenderer(out io.Writer, format string) (*RegistryRenderer, error) {
	switch format {
	case "", FormatTable:
		format = FormatTable
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
	return &RegistryRenderer{out: out, format: format}, nil
}

// Render implements Renderer
func (r *RegistryRenderer) Render(result *usecase.ShowRegistryResult) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(result)
	case FormatYAML:
		return r.renderYAML(result)
	default:
		return r.renderTable(result)
	}
}

func (r *RegistryRenderer) renderTable(result *usecase.ShowRegistryResult) error {
	if len(result.Entries) == 0 {
		fmt.Fprintf(r.out, "No addresses recorded in %s\n", result.Path)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Chain ID", "Network asset", "Address"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})

	for _, entry := range result.Entries {
		asset := "-"
		if a, err := domain.LookupNativeAsset(entry.ChainID); err == nil {
			asset = a.Symbol
		}
		t.AppendRow(table.Row{entry.ChainID.String(), asset, entry.Address.String()})
	}
	t.Render()
	return nil
}

// entriesMap keeps the on-disk registry shape for machine-readable output
func entriesMap(entries []usecase.RegistryEntry) map[string]string {
	return lo.SliceToMap(entries, func(e usecase.RegistryEntry) (string, string) {
		return e.ChainID.String(), e.Address.String()
	})
}

func (r *RegistryRenderer) renderJSON(result *usecase.ShowRegistryResult) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(entriesMap(result.Entries))
}

func (r *RegistryRenderer) renderYAML(result *usecase.ShowRegistryResult) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(entriesMap(result.Entries)); err != nil {
		return err
	}
	return enc.Close()
}

var _ Renderer[*usecase.ShowRegistryResult] = (*RegistryRenderer)(nil)
