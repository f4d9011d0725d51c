package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// ConfirmerAdapter asks the operator before a transaction is broadcast
type ConfirmerAdapter struct {
	config *config.RuntimeConfig
	prompt func(label string) error
}

// NewConfirmerAdapter creates a new confirmer adapter
func NewConfirmerAdapter(cfg *config.RuntimeConfig) *ConfirmerAdapter {
	return &ConfirmerAdapter{
		config: cfg,
		prompt: runPrompt,
	}
}

// Confirm returns true without prompting in non-interactive or --yes mode
func (c *ConfirmerAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.config.NonInteractive || c.config.AssumeYes {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := c.prompt(prompt)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt):
		return false, context.Canceled
	default:
		return false, fmt.Errorf("prompt failed: %w", err)
	}
}

func runPrompt(label string) error {
	p := promptui.Prompt{
		Label:     color.New(color.FgYellow).Sprint(label),
		IsConfirm: true,
	}
	_, err := p.Run()
	return err
}

// Ensure ConfirmerAdapter implements Confirmer
var _ usecase.Confirmer = (*ConfirmerAdapter)(nil)
