package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type (
	// ClaimType names an insurance claim category
	ClaimType string

	// ClaimStatus is the outcome of a claim evaluation
	ClaimStatus string

	// ClaimRequest carries the claim to evaluate
	ClaimRequest struct {
		ClaimType   ClaimType `json:"claimType"`
		ClaimAmount float64   `json:"claimAmount"`
	}

	// ClaimBody is the JSON form of a claim. The amount is a pointer so a
	// missing claimAmount can be told apart from zero
	ClaimBody struct {
		ClaimType   ClaimType `json:"claimType"`
		ClaimAmount *float64  `json:"claimAmount"`
	}

	// ClaimResponse echoes the claim with its evaluated status
	ClaimResponse struct {
		ClaimType ClaimType   `json:"claim-type"`
		Amount    float64     `json:"amount"`
		Status    ClaimStatus `json:"status"`
		Reason    string      `json:"reason,omitempty"`
	}
)

const (
	ClaimMedical ClaimType = "MEDICAL"
	ClaimDental  ClaimType = "DENTAL"
	ClaimDrug    ClaimType = "DRUG"

	ClaimAccepted ClaimStatus = "Accepted"
	ClaimRejected ClaimStatus = "Rejected"
)

// Validate rejects amounts that cannot be compared against a limit
func (r *ClaimRequest) Validate() error {
	if math.IsNaN(r.ClaimAmount) || math.IsInf(r.ClaimAmount, 0) {
		return fmt.Errorf("%w: claimAmount is not a number", ErrInvalidRequest)
	}
	return nil
}

// ParseClaimRequest builds a ClaimRequest from query string values
func ParseClaimRequest(claimType, amount string) (*ClaimRequest, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("%w: claimAmount is required", ErrInvalidRequest)
	}
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: claimAmount %q is not a number",
			ErrInvalidRequest, amount)
	}
	return &ClaimRequest{
		ClaimType:   ClaimType(strings.TrimSpace(claimType)),
		ClaimAmount: v,
	}, nil
}

// Request converts the body into a ClaimRequest
func (b *ClaimBody) Request() (*ClaimRequest, error) {
	if b.ClaimAmount == nil {
		return nil, fmt.Errorf("%w: claimAmount is required", ErrInvalidRequest)
	}
	req := &ClaimRequest{
		ClaimType:   ClaimType(strings.TrimSpace(string(b.ClaimType))),
		ClaimAmount: *b.ClaimAmount,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
