// Package orderlog records placed orders in an external store
//
// A Sink is the third call of the order flow. The default sink posts the
// record to the Db2 REST service; Redis streams and blob buckets are
// available for deployments without that service
package orderlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gocloud.dev/blob"

	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/internal/config"
	"github.com/zosconnect/orchestrate/internal/metrics"
	"github.com/zosconnect/orchestrate/pkg/api"

	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

type (
	// Sink persists one order record
	Sink interface {
		Record(context.Context, *api.OrderRecord) error
	}

	// Closer releases the resources held by a sink
	Closer func() error
)

// Upstream is the name order log failures are reported under
const Upstream = "order-log"

var (
	ErrRecordRequired = errors.New("order record is required")
	ErrOpenSink       = errors.New("failed to open order log sink")
)

// Open builds the sink selected by cfg. A nil Sink is returned for the
// "none" sink, in which case the order flow makes no third call. The HTTP
// sink reports its calls through cl; the others report to m
func Open(
	ctx context.Context, cfg *config.Config, cl client.Client,
	m *metrics.Metrics,
) (Sink, Closer, error) {
	nop := func() error { return nil }

	switch cfg.OrderLog.Sink {
	case config.SinkNone:
		return nil, nop, nil

	case config.SinkHTTP:
		return NewHTTPSink(cl, cfg.Upstreams.OrderLogURL), nop, nil

	case config.SinkRedis:
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.OrderLog.RedisAddr,
			Password: cfg.OrderLog.RedisPassword,
			DB:       cfg.OrderLog.RedisDB,
		})
		return NewRedisSink(rc, cfg.OrderLog.RedisStream, m), rc.Close, nil

	case config.SinkBlob:
		bucket, err := blob.OpenBucket(ctx, cfg.OrderLog.BucketURL)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrOpenSink, err)
		}
		sink, err := NewBlobSink(bucket, cfg.OrderLog.BucketPrefix, m)
		if err != nil {
			_ = bucket.Close()
			return nil, nil, fmt.Errorf("%w: %w", ErrOpenSink, err)
		}
		return sink, bucket.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %w: %q",
			ErrOpenSink, config.ErrInvalidSink, cfg.OrderLog.Sink)
	}
}

// observe records the outcome of a store call started at start and wraps
// a failure so it is reported against the order log upstream
func observe(m *metrics.Metrics, start time.Time, err error) error {
	dur := time.Since(start)
	if err != nil {
		m.ObserveUpstream(Upstream, metrics.OutcomeFailed, dur)
		return &client.UpstreamError{
			Err:      err,
			Upstream: Upstream,
		}
	}
	m.ObserveUpstream(Upstream, metrics.OutcomeSuccess, dur)
	return nil
}
