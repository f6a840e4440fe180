// Package rules evaluates claims against a fixed table of per-type limits
package rules

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/zosconnect/orchestrate/pkg/api"
)

type (
	// Rule is the limit and rejection reason for one claim type
	Rule struct {
		Reason string
		Limit  float64
	}

	// Table maps claim types to their rule
	Table map[api.ClaimType]Rule
)

// NormalClaim is the reason reported for an accepted claim of a known type
const NormalClaim = "Normal claim"

// NewTable builds a Table from per-type limits. Claim type names are
// matched exactly, so "medical" is not a MEDICAL claim
func NewTable(limits map[string]float64) Table {
	res := make(Table, len(limits))
	for name, limit := range limits {
		res[api.ClaimType(name)] = Rule{
			Limit:  limit,
			Reason: "Amount exceeded $" + formatAmount(limit) +
				". Claim require further review.",
		}
	}
	return res
}

// Evaluate applies the table to a claim. An amount strictly above the
// type's limit is rejected; an unknown type is accepted without a reason
func (t Table) Evaluate(req *api.ClaimRequest) *api.ClaimResponse {
	res := &api.ClaimResponse{
		ClaimType: req.ClaimType,
		Amount:    req.ClaimAmount,
		Status:    api.ClaimAccepted,
	}

	rule, ok := t[req.ClaimType]
	if !ok {
		return res
	}

	if req.ClaimAmount <= rule.Limit {
		res.Reason = NormalClaim
		return res
	}

	res.Status = api.ClaimRejected
	res.Reason = rule.Reason
	slog.Info("Claim requires review",
		slog.String("claim_type", string(req.ClaimType)),
		slog.String("notice", "Submitted claim for "+string(req.ClaimType)+
			" with amount $"+formatAmount(req.ClaimAmount)+" exceeded $"+
			formatAmount(rule.Limit)+" limit. Claim require further review."))
	return res
}

// Types lists the claim types the table knows about
func (t Table) Types() []api.ClaimType {
	return slices.Sorted(maps.Keys(t))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
