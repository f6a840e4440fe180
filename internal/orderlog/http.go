package orderlog

import (
	"context"
	"strings"

	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/pkg/api"
)

// HTTPSink posts order records to the Db2 order REST service
type HTTPSink struct {
	client client.Client
	url    string
}

const orderLogPath = "/db2/catalog/order"

var _ Sink = (*HTTPSink)(nil)

// NewHTTPSink creates a sink posting to baseURL's order endpoint
func NewHTTPSink(cl client.Client, baseURL string) *HTTPSink {
	return &HTTPSink{
		client: cl,
		url:    strings.TrimSuffix(baseURL, "/") + orderLogPath,
	}
}

// Record posts rec. The service's response body is not inspected
func (s *HTTPSink) Record(ctx context.Context, rec *api.OrderRecord) error {
	if rec == nil {
		return ErrRecordRequired
	}
	_, err := s.client.PostJSON(ctx, Upstream, s.url, rec)
	return err
}
