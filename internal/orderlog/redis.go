package orderlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zosconnect/orchestrate/internal/metrics"
	"github.com/zosconnect/orchestrate/pkg/api"
)

// RedisSink appends order records to a Redis stream
type RedisSink struct {
	client  redis.Cmdable
	metrics *metrics.Metrics
	stream  string
}

var _ Sink = (*RedisSink)(nil)

// NewRedisSink creates a sink appending to stream. m may be nil
func NewRedisSink(
	rc redis.Cmdable, stream string, m *metrics.Metrics,
) *RedisSink {
	return &RedisSink{
		client:  rc,
		metrics: m,
		stream:  stream,
	}
}

// Record adds rec to the stream as its JSON encoding under "record"
func (s *RedisSink) Record(ctx context.Context, rec *api.OrderRecord) error {
	if rec == nil {
		return ErrRecordRequired
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":     rec.ID,
			"item":   rec.Item,
			"record": string(data),
		},
	}).Err()
	return observe(s.metrics, start, err)
}
