package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/pkg/api"
	"github.com/zosconnect/orchestrate/pkg/log"
	"github.com/zosconnect/orchestrate/pkg/util/call"
)

type (
	orderFlow struct {
		*Orchestrator
		req      *api.OrderRequest
		placed   gjson.Result
		item     gjson.Result
		res      api.OrderResponse
		recordID string
		rejected bool
	}

	catalogOrder struct {
		Program orderProgram `json:"DFH0XCP1"`
	}

	orderProgram struct {
		Request orderArea `json:"CA_ORDER_REQUEST"`
	}

	orderArea struct {
		UserID     string `json:"CA_USERID"`
		ChargeDept string `json:"CA_CHARGE_DEPT"`
		ItemRef    string `json:"CA_ITEM_REF_NUMBER"`
		Quantity   int    `json:"CA_QUANTITY_REQ"`
	}
)

const singleItemPath = "DFH0XCP1.CA_INQUIRE_SINGLE.CA_SINGLE_ITEM"

// PlaceOrder submits an order to the catalog, reads back the ordered item,
// and records the combined order in the order log. When the catalog does
// not confirm the order, nothing else is called and a rejection is returned
func (o *Orchestrator) PlaceOrder(
	ctx context.Context, req *api.OrderRequest,
) (*api.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f := &orderFlow{
		Orchestrator: o,
		req:          req,
	}

	err := call.Sequence(ctx,
		f.submitOrder,
		f.checkPlaced,
		f.fetchItem,
		f.mergeItem,
		f.recordOrder,
	)
	o.outcome(FlowOrder, f.rejected, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}

	slog.Info("Order processed",
		log.RequestID(client.RequestID(ctx)),
		slog.String("item", req.ItemNumber),
		slog.Int("qty", req.OrderQty),
		log.OrderID(f.recordID),
		log.Status(f.res.Status))
	return &f.res, nil
}

func (f *orderFlow) submitOrder(ctx context.Context) error {
	body := catalogOrder{
		Program: orderProgram{
			Request: orderArea{
				UserID:     f.req.UserID,
				ChargeDept: f.req.ChargeDept,
				ItemRef:    f.req.ItemNumber,
				Quantity:   f.req.OrderQty,
			},
		},
	}
	u := joinURL(f.upstreams.CatalogURL, "/product/catalog/order/mobile")
	res, err := f.client.PostJSON(ctx, UpstreamCatalogOrder, u, body)
	f.placed = res
	return err
}

func (f *orderFlow) checkPlaced(context.Context) error {
	msg := trimmed(f.placed, "DFH0XCP1.CA_RESPONSE_MESSAGE")
	if msg != f.upstreams.OrderPlacedMessage {
		f.rejected = true
		f.res = api.OrderResponse{
			Item:   f.req.ItemNumber,
			Qty:    f.req.OrderQty,
			Status: api.OrderNotSubmitted,
		}
		slog.Warn("Order not submitted",
			slog.String("item", f.req.ItemNumber),
			slog.String("message", msg))
		return call.ErrHalt
	}
	f.res.Status = msg
	return nil
}

func (f *orderFlow) fetchItem(ctx context.Context) error {
	u := joinURL(f.upstreams.CatalogURL,
		"/product/catalog/mobile?itemID="+url.QueryEscape(f.req.ItemNumber))
	res, err := f.client.GetJSON(ctx, UpstreamCatalogItem, u)
	f.item = res
	return err
}

func (f *orderFlow) mergeItem(context.Context) error {
	single := f.item.Get(singleItemPath)

	f.res.Item = f.req.ItemNumber
	f.res.OrderQty = f.req.OrderQty
	f.res.Desc = trimmed(single, "CA_SNGL_DESCRIPTION")

	if stock := single.Get("IN_SNGL_STOCK"); stock.Exists() {
		v := int(stock.Int())
		f.res.UpdatedStock = &v
	}

	if cents, ok := parseCents(single.Get("CA_SNGL_COST")); ok {
		f.res.UnitCost = formatCents(cents)
		f.res.TotalCost = formatCents(cents * int64(f.req.OrderQty))
	}
	return nil
}

func (f *orderFlow) recordOrder(ctx context.Context) error {
	if f.orderLog == nil {
		return nil
	}
	rec := f.req.Record(f.newID(), f.res.Desc, f.now().UTC())
	if err := f.orderLog.Record(ctx, rec); err != nil {
		return err
	}
	f.recordID = rec.ID
	return nil
}

// parseCents reads a catalog cost, which arrives either as a number or as
// a zero-padded decimal string such as "002.90"
func parseCents(cost gjson.Result) (int64, bool) {
	if !cost.Exists() {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cost.String()), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return int64(math.Round(v * 100)), true
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
