package metrics

import (
	"fmt"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// Recorder collects per-run metrics in a private registry so they can be
// dumped for the node-exporter textfile collector.
type Recorder struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	fundingUnits  *prometheus.GaugeVec
	path          string
}

// NewRecorder creates a Recorder. Nothing is written unless metrics_file is set.
func NewRecorder(cfg *config.RuntimeConfig) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "actions_deploy_stage_duration_seconds",
			Help:    "Duration of each deployment stage.",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"stage"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actions_deploy_stage_failures_total",
			Help: "Number of failed deployment stages.",
		}, []string{"stage"}),
		fundingUnits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "actions_deploy_funding_units",
			Help: "Constructor funding amount in smallest native units.",
		}, []string{"chain_id"}),
		path: cfg.MetricsFile,
	}
	r.registry.MustRegister(r.stageDuration, r.stageFailures, r.fundingUnits)
	return r
}

// ObserveStage records how long a stage took and whether it failed
func (r *Recorder) ObserveStage(stage string, took time.Duration, err error) {
	r.stageDuration.WithLabelValues(stage).Observe(took.Seconds())
	if err != nil {
		r.stageFailures.WithLabelValues(stage).Inc()
	}
}

// SetFundingUnits records the resolved funding amount. Precision beyond
// float64 is lost, the exact value is in the logs.
func (r *Recorder) SetFundingUnits(chainID domain.ChainID, units *big.Int) {
	if units == nil {
		return
	}
	f, _ := new(big.Float).SetInt(units).Float64()
	r.fundingUnits.WithLabelValues(chainID.String()).Set(f)
}

// Gatherer exposes the underlying registry
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Flush writes collected metrics to the configured file
func (r *Recorder) Flush() error {
	if r.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", r.path, err)
	}
	return nil
}

// Ensure Recorder implements MetricsRecorder
var _ usecase.MetricsRecorder = (*Recorder)(nil)
