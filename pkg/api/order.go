package api

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// OrderRequest is the inbound body of an order submission
	OrderRequest struct {
		ItemNumber    string `json:"itemNumber"`
		UserID        string `json:"userID"`
		ChargeDept    string `json:"chargeDept"`
		OrderQty      int    `json:"orderQty"`
		ShiptoStreet  string `json:"shiptoStreet"`
		ShiptoCity    string `json:"shiptoCity"`
		ShiptoState   string `json:"shiptoState"`
		ShiptoZipcode string `json:"shiptoZipcode"`
	}

	// OrderResponse is the merged result of an order. A rejected order
	// carries only Item, Qty, and Status
	OrderResponse struct {
		Item         string `json:"item,omitempty"`
		OrderQty     int    `json:"order-qty,omitempty"`
		Qty          int    `json:"qty,omitempty"`
		Desc         string `json:"desc,omitempty"`
		UpdatedStock *int   `json:"updated-stock,omitempty"`
		UnitCost     string `json:"unit-cost,omitempty"`
		TotalCost    string `json:"total-cost,omitempty"`
		Status       string `json:"status"`
	}

	// OrderRecord is the combined order entry handed to the order log
	OrderRecord struct {
		ID        string    `json:"id"`
		Item      string    `json:"item"`
		User      string    `json:"user"`
		Desc      string    `json:"desc"`
		Dept      string    `json:"dept"`
		Qty       int       `json:"qty"`
		Street    string    `json:"street"`
		City      string    `json:"city"`
		State     string    `json:"state"`
		Zipcode   string    `json:"zipcode"`
		Timestamp time.Time `json:"timestamp"`
	}
)

const (
	// OrderPlaced is the catalog message for a successful order
	OrderPlaced = "ORDER SUCCESSFULLY PLACED"

	// OrderNotSubmitted is reported when the catalog refuses an order
	OrderNotSubmitted = "ORDER NOT SUBMITTED"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrItemRequired    = errors.New("itemNumber is required")
	ErrInvalidQuantity = errors.New("orderQty must be positive")
)

// Validate checks the fields the catalog needs to place an order
func (r *OrderRequest) Validate() error {
	if strings.TrimSpace(r.ItemNumber) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrItemRequired)
	}
	if r.OrderQty <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrInvalidQuantity)
	}
	return nil
}

// Record builds the order log entry for a placed order
func (r *OrderRequest) Record(id, desc string, at time.Time) *OrderRecord {
	return &OrderRecord{
		ID:        id,
		Item:      r.ItemNumber,
		User:      r.UserID,
		Desc:      desc,
		Dept:      r.ChargeDept,
		Qty:       r.OrderQty,
		Street:    r.ShiptoStreet,
		City:      r.ShiptoCity,
		State:     r.ShiptoState,
		Zipcode:   r.ShiptoZipcode,
		Timestamp: at,
	}
}
