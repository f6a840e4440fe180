package orchestrator

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/internal/config"
	"github.com/zosconnect/orchestrate/internal/metrics"
	"github.com/zosconnect/orchestrate/internal/orderlog"
	"github.com/zosconnect/orchestrate/internal/rules"
)

type (
	// Orchestrator runs the contact, order, and claim flows
	Orchestrator struct {
		client    client.Client
		orderLog  orderlog.Sink
		rules     rules.Table
		metrics   *metrics.Metrics
		upstreams config.Upstreams
		now       func() time.Time
		newID     func() string
	}

	// Dependencies are the collaborators an Orchestrator calls out to. A
	// nil OrderLog makes the order flow stop after the item inquiry
	Dependencies struct {
		Client   client.Client
		OrderLog orderlog.Sink
		Metrics  *metrics.Metrics
		Clock    func() time.Time
	}
)

// Upstream names used in logs, metrics, and error responses
const (
	UpstreamPhonebook    = "phonebook"
	UpstreamPostal       = "postal"
	UpstreamCatalogOrder = "catalog-order"
	UpstreamCatalogItem  = "catalog-item"
)

// Flow names
const (
	FlowContact = "contact"
	FlowOrder   = "order"
	FlowClaim   = "claim"
)

var (
	ErrContactLookup = errors.New("contact lookup failed")
	ErrOrderFailed   = errors.New("order processing failed")
)

// New creates an Orchestrator from the upstream and claim settings in cfg
func New(cfg *config.Config, deps Dependencies) *Orchestrator {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Orchestrator{
		client:    deps.Client,
		orderLog:  deps.OrderLog,
		rules:     rules.NewTable(cfg.Claims.Limits),
		metrics:   deps.Metrics,
		upstreams: cfg.Upstreams,
		now:       clock,
		newID:     uuid.NewString,
	}
}

// ClaimTypes lists the claim types that carry a limit
func (o *Orchestrator) ClaimTypes() []string {
	types := o.rules.Types()
	res := make([]string, len(types))
	for i, t := range types {
		res[i] = string(t)
	}
	return res
}

func (o *Orchestrator) outcome(flow string, rejected bool, err error) {
	switch {
	case err != nil:
		o.metrics.FlowOutcome(flow, metrics.OutcomeFailed)
	case rejected:
		o.metrics.FlowOutcome(flow, metrics.OutcomeRejected)
	default:
		o.metrics.FlowOutcome(flow, metrics.OutcomeSuccess)
	}
}

func joinURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + path
}
