package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// DeployRenderer renders orchestration results
type DeployRenderer struct {
	out         io.Writer
	explorerURL string
}

// NewDeployRenderer creates a new deploy renderer. explorerURL may be empty.
func NewDeployRenderer(out io.Writer, explorerURL string) *DeployRenderer {
	return &DeployRenderer{
		out:         out,
		explorerURL: strings.TrimRight(explorerURL, "/"),
	}
}

// Render implements Renderer
func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	if result.Funding != nil {
		r.renderFunding(result.Funding)
	}

	if result.DryRun {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, color.New(color.FgYellow).Sprint("Dry run: nothing was deployed and the registry was not changed"))
		return nil
	}

	contract := result.Contract
	if contract == nil {
		return nil
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed on chain %d", contract.ChainID)))
	r.field("Address", color.New(color.FgGreen, color.Bold).Sprint(contract.Address))
	r.field("Transaction", contract.TxHash)
	r.field("Block", fmt.Sprintf("%d", contract.BlockNumber))
	r.field("Gas used", fmt.Sprintf("%d", contract.GasUsed))
	if r.explorerURL != "" {
		r.field("Explorer", fmt.Sprintf("%s/address/%s", r.explorerURL, contract.Address))
	}
	if result.PreviousAddress != "" && result.PreviousAddress != contract.Address {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("replaced previous address %s", result.PreviousAddress)))
	}
	fmt.Fprintf(r.out, "\nRecorded in %s (%d chains)\n", result.RegistryPath, len(result.Registry))
	return nil
}

// RenderFunding prints only the resolved amount
func (r *DeployRenderer) RenderFunding(funding *domain.FundingAmount) error {
	r.renderFunding(funding)
	return nil
}

func (r *DeployRenderer) renderFunding(funding *domain.FundingAmount) {
	title := cases.Title(language.English)
	fmt.Fprintln(r.out, color.New(color.Bold).Sprintf("Funding (%s mode)", title.String(string(funding.Mode))))
	if q := funding.Quote; q != nil {
		r.field("Price", fmt.Sprintf("1 %s = %s %s", q.AssetID, q.Price.String(), strings.ToUpper(q.Currency)))
		r.field("Rounding", string(funding.Rounding))
	}
	r.field("Native", funding.Native.String())
	r.field("Units", funding.Units.String())
}

func (r *DeployRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %-12s %s\n", label+":", value)
}

// DescribeOutcome explains what a failed run left behind
func DescribeOutcome(err error) string {
	switch domain.Classify(err) {
	case domain.OutcomeNothingHappened:
		return "Nothing was sent to the chain. It is safe to run again."
	case domain.OutcomeChainStateUnknown:
		return "A transaction was sent. Check it on the chain before running again."
	case domain.OutcomeDeployedNotRecorded:
		return "The contract is deployed but missing from the registry. Add it by hand; do not run again."
	default:
		return ""
	}
}

var _ Renderer[*usecase.DeployContractResult] = (*DeployRenderer)(nil)
