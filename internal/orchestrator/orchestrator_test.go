package orchestrator_test

import (
	"testing"
	"time"

	"github.com/zosconnect/orchestrate/internal/assert/helpers"
	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/internal/config"
	"github.com/zosconnect/orchestrate/internal/metrics"
	"github.com/zosconnect/orchestrate/internal/orchestrator"
	"github.com/zosconnect/orchestrate/internal/orderlog"
)

type testEnv struct {
	Upstream     *helpers.Upstream
	Config       *config.Config
	Metrics      *metrics.Metrics
	Orchestrator *orchestrator.Orchestrator
}

var fixedTime = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, func(*config.Config) {})
}

func newTestEnvWith(t *testing.T, mod func(*config.Config)) *testEnv {
	t.Helper()

	up := helpers.NewUpstream(t)
	cfg := helpers.NewTestConfig(up)
	mod(cfg)

	m := metrics.New()
	cl := client.NewHTTPClient(cfg.Upstreams.Timeout, m)

	var sink orderlog.Sink
	if cfg.OrderLog.Sink == config.SinkHTTP {
		sink = orderlog.NewHTTPSink(cl, cfg.Upstreams.OrderLogURL)
	}

	return &testEnv{
		Upstream: up,
		Config:   cfg,
		Metrics:  m,
		Orchestrator: orchestrator.New(cfg, orchestrator.Dependencies{
			Client:   cl,
			OrderLog: sink,
			Metrics:  m,
			Clock:    func() time.Time { return fixedTime },
		}),
	}
}
