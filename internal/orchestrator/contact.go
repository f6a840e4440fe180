package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/pkg/api"
	"github.com/zosconnect/orchestrate/pkg/log"
	"github.com/zosconnect/orchestrate/pkg/util/call"
)

type contactFlow struct {
	*Orchestrator
	lastName  string
	phonebook gjson.Result
	postal    gjson.Result
	res       api.ContactResponse
	notFound  bool
}

// LookupContact finds a phonebook entry by last name and enriches it with
// the details of its postal code. When the phonebook has no entry, the
// postal service is not called and only a status is returned
func (o *Orchestrator) LookupContact(
	ctx context.Context, lastName string,
) (*api.ContactResponse, error) {
	f := &contactFlow{
		Orchestrator: o,
		lastName:     lastName,
	}

	err := call.Sequence(ctx,
		f.fetchEntry,
		f.checkFound,
		f.fetchPostalCode,
		f.mergePostalCode,
	)
	o.outcome(FlowContact, f.notFound, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContactLookup, err)
	}

	slog.Info("Contact lookup completed",
		log.RequestID(client.RequestID(ctx)),
		slog.String("last_name", lastName),
		slog.Bool("found", !f.notFound))
	return &f.res, nil
}

func (f *contactFlow) fetchEntry(ctx context.Context) error {
	u := joinURL(f.upstreams.PhonebookURL,
		"/phonebook/contact/"+url.PathEscape(f.lastName))
	res, err := f.client.GetJSON(ctx, UpstreamPhonebook, u)
	f.phonebook = res
	return err
}

func (f *contactFlow) checkFound(context.Context) error {
	area := f.phonebook.Get("OUTPUT_AREA")
	msg := strings.TrimSpace(area.Get("OUT_MESSAGE").String())
	if msg == f.upstreams.NotFoundMessage {
		f.notFound = true
		f.res = api.ContactResponse{Status: api.ContactNotFound}
		return call.ErrHalt
	}

	f.res.LastName = trimmed(area, "OUT_LAST_NAME")
	f.res.FirstName = trimmed(area, "OUT_FIRST_NAME")
	f.res.Extension = trimmed(area, "OUT_EXTENSION")
	f.res.ZipCode = trimmed(area, "OUT_ZIP_CODE")
	return nil
}

func (f *contactFlow) fetchPostalCode(ctx context.Context) error {
	u := joinURL(f.upstreams.PostalURL, "/us/"+url.PathEscape(f.res.ZipCode))
	res, err := f.client.GetJSON(ctx, UpstreamPostal, u)
	f.postal = res
	return err
}

func (f *contactFlow) mergePostalCode(context.Context) error {
	place := f.postal.Get("places.0")
	f.res.Country = f.postal.Get("country").String()
	f.res.Latitude = place.Get("latitude").String()
	f.res.Longitude = place.Get("longitude").String()
	f.res.State = place.Get("state").String()
	f.res.City = place.Get("place name").String()
	return nil
}

func trimmed(res gjson.Result, path string) string {
	return strings.TrimSpace(res.Get(path).String())
}
