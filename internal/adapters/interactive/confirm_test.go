package interactive

import (
	"context"
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multisig-actions/actions-deploy/internal/domain/config"
)

func TestConfirmerAdapter(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		cfg       config.RuntimeConfig
		promptErr error
		want      bool
		wantErr   error
		prompted  bool
	}{
		{name: "non interactive", cfg: config.RuntimeConfig{NonInteractive: true}, want: true},
		{name: "assume yes", cfg: config.RuntimeConfig{AssumeYes: true}, want: true},
		{name: "accepted", want: true, prompted: true},
		{name: "declined", promptErr: promptui.ErrAbort, want: false, prompted: true},
		{name: "interrupted", promptErr: promptui.ErrInterrupt, wantErr: context.Canceled, prompted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			c := NewConfirmerAdapter(&cfg)
			prompted := false
			c.prompt = func(label string) error {
				prompted = true
				assert.Equal(t, "Deploy?", label)
				return tt.promptErr
			}

			got, err := c.Confirm(ctx, "Deploy?")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.prompted, prompted)
		})
	}
}
