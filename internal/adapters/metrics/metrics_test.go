package metrics

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multisig-actions/actions-deploy/internal/domain/config"
)

func TestRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions_deploy.prom")
	r := NewRecorder(&config.RuntimeConfig{MetricsFile: path})

	r.ObserveStage("funding", 120*time.Millisecond, nil)
	r.ObserveStage("deploy", 2*time.Second, errors.New("timeout"))
	r.SetFundingUnits(97, big.NewInt(33333333333333333))

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["actions_deploy_stage_duration_seconds"])
	assert.True(t, names["actions_deploy_stage_failures_total"])
	assert.True(t, names["actions_deploy_funding_units"])

	require.NoError(t, r.Flush())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `actions_deploy_stage_failures_total{stage="deploy"} 1`)
	assert.Contains(t, string(data), `actions_deploy_funding_units{chain_id="97"}`)
}

func TestRecorder_FlushWithoutFile(t *testing.T) {
	r := NewRecorder(&config.RuntimeConfig{})
	r.ObserveStage("registry", time.Millisecond, nil)
	assert.NoError(t, r.Flush())
}
