package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/multisig-actions/actions-deploy/internal/cli/render"
	"github.com/multisig-actions/actions-deploy/internal/domain"
)

// Process exit codes
const (
	ExitOK                  = 0
	ExitUsage               = 1
	ExitNothingHappened     = 2
	ExitChainStateUnknown   = 3
	ExitDeployedNotRecorded = 4
)

// ExitCode maps a command error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch domain.Classify(err) {
	case domain.OutcomeNothingHappened:
		return ExitNothingHappened
	case domain.OutcomeChainStateUnknown:
		return ExitChainStateUnknown
	case domain.OutcomeDeployedNotRecorded:
		return ExitDeployedNotRecorded
	default:
		return ExitUsage
	}
}

// Main runs the CLI with args and returns the exit code
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd, s := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if closeErr := s.close(); closeErr != nil {
		fmt.Fprintln(stderr, render.FormatWarning(closeErr.Error()))
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if hint := render.DescribeOutcome(err); hint != "" {
			fmt.Fprintln(stderr, hint)
		}
	}
	return ExitCode(err)
}
