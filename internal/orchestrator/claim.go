package orchestrator

import (
	"github.com/zosconnect/orchestrate/pkg/api"
)

// EvaluateClaim checks a claim against the configured limits
func (o *Orchestrator) EvaluateClaim(
	req *api.ClaimRequest,
) (*api.ClaimResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	res := o.rules.Evaluate(req)
	o.outcome(FlowClaim, res.Status == api.ClaimRejected, nil)
	return res, nil
}
