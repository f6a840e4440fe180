package orderlog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"

	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/internal/config"
	"github.com/zosconnect/orchestrate/internal/metrics"
	"github.com/zosconnect/orchestrate/internal/orderlog"
	"github.com/zosconnect/orchestrate/pkg/api"
)

type failingBucket struct{}

func (failingBucket) WriteAll(
	context.Context, string, []byte, *blob.WriterOptions,
) error {
	return errors.New("bucket unavailable")
}

func storeCalls(m *metrics.Metrics, outcome string) float64 {
	return testutil.ToFloat64(
		m.UpstreamCalls().WithLabelValues(orderlog.Upstream, outcome),
	)
}

func testRecord() *api.OrderRecord {
	return &api.OrderRecord{
		ID:        "3f1c9a52-0d6e-4b8e-9a55-8d7b5f0e2c11",
		Item:      "0010",
		User:      "USER0001",
		Desc:      "Ball Pens Black 24pk",
		Dept:      "DEPT0001",
		Qty:       2,
		Street:    "1 Main St",
		City:      "Springfield",
		State:     "IL",
		Zipcode:   "62701",
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestHTTPSink(t *testing.T) {
	var got api.OrderRecord
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/db2/catalog/order", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		},
	))
	defer server.Close()

	cl := client.NewHTTPClient(5*time.Second, nil)
	sink := orderlog.NewHTTPSink(cl, server.URL+"/")

	rec := testRecord()
	require.NoError(t, sink.Record(context.Background(), rec))
	assert.Equal(t, *rec, got)
}

func TestHTTPSinkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
	))
	defer server.Close()

	cl := client.NewHTTPClient(5*time.Second, nil)
	sink := orderlog.NewHTTPSink(cl, server.URL)

	err := sink.Record(context.Background(), testRecord())
	assert.ErrorIs(t, err, client.ErrUpstream)
}

func TestRecordRequired(t *testing.T) {
	ctx := context.Background()
	blobSink, err := orderlog.NewBlobSink(failingBucket{}, "", nil)
	require.NoError(t, err)

	sinks := []orderlog.Sink{
		orderlog.NewHTTPSink(client.NewHTTPClient(time.Second, nil), "http://x"),
		orderlog.NewRedisSink(nil, "s", nil),
		blobSink,
	}
	for _, s := range sinks {
		assert.ErrorIs(t, s.Record(ctx, nil), orderlog.ErrRecordRequired)
	}
}

func TestRedisSink(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rc.Close() }()

	ctx := context.Background()
	m := metrics.New()
	sink := orderlog.NewRedisSink(rc, "orders", m)
	rec := testRecord()
	require.NoError(t, sink.Record(ctx, rec))
	assert.Equal(t, 1.0, storeCalls(m, metrics.OutcomeSuccess))
	assert.Zero(t, storeCalls(m, metrics.OutcomeFailed))

	entries, err := rc.XRange(ctx, "orders", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, rec.ID, entries[0].Values["id"])
	assert.Equal(t, "0010", entries[0].Values["item"])

	var stored api.OrderRecord
	require.NoError(t, json.Unmarshal(
		[]byte(entries[0].Values["record"].(string)), &stored,
	))
	assert.Equal(t, *rec, stored)
}

func TestRedisSinkFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rc := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	defer func() { _ = rc.Close() }()
	mr.Close()

	m := metrics.New()
	sink := orderlog.NewRedisSink(rc, "orders", m)
	err = sink.Record(context.Background(), testRecord())
	assert.ErrorIs(t, err, client.ErrUpstream)

	var ue *client.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, orderlog.Upstream, ue.Upstream)
	assert.Equal(t, 1.0, storeCalls(m, metrics.OutcomeFailed))
	assert.Zero(t, storeCalls(m, metrics.OutcomeSuccess))
}

func TestBlobSink(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer func() { _ = bucket.Close() }()

	m := metrics.New()
	sink, err := orderlog.NewBlobSink(bucket, "orders", m)
	require.NoError(t, err)

	rec := testRecord()
	require.NoError(t, sink.Record(ctx, rec))
	assert.Equal(t, 1.0, storeCalls(m, metrics.OutcomeSuccess))

	data, err := bucket.ReadAll(ctx, "orders/2024-03-01/"+rec.ID+".json")
	require.NoError(t, err)

	var stored api.OrderRecord
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, *rec, stored)
}

func TestBlobSinkNoPrefix(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer func() { _ = bucket.Close() }()

	sink, err := orderlog.NewBlobSink(bucket, "", nil)
	require.NoError(t, err)

	rec := testRecord()
	require.NoError(t, sink.Record(ctx, rec))

	exists, err := bucket.Exists(ctx, "2024-03-01/"+rec.ID+".json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBlobSinkFailure(t *testing.T) {
	_, err := orderlog.NewBlobSink(nil, "", nil)
	assert.ErrorIs(t, err, orderlog.ErrBucketRequired)

	m := metrics.New()
	sink, err := orderlog.NewBlobSink(failingBucket{}, "orders/", m)
	require.NoError(t, err)
	err = sink.Record(context.Background(), testRecord())
	assert.ErrorIs(t, err, client.ErrUpstream)
	assert.Equal(t, 1.0, storeCalls(m, metrics.OutcomeFailed))
	assert.Zero(t, storeCalls(m, metrics.OutcomeSuccess))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	cl := client.NewHTTPClient(time.Second, m)

	t.Run("none", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.OrderLog.Sink = config.SinkNone
		sink, closer, err := orderlog.Open(ctx, cfg, cl, m)
		require.NoError(t, err)
		assert.Nil(t, sink)
		assert.NoError(t, closer())
	})

	t.Run("http", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		sink, closer, err := orderlog.Open(ctx, cfg, cl, m)
		require.NoError(t, err)
		assert.IsType(t, &orderlog.HTTPSink{}, sink)
		assert.NoError(t, closer())
	})

	t.Run("redis", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		cfg := config.NewDefaultConfig()
		cfg.OrderLog.Sink = config.SinkRedis
		cfg.OrderLog.RedisAddr = mr.Addr()
		sink, closer, err := orderlog.Open(ctx, cfg, cl, m)
		require.NoError(t, err)
		require.IsType(t, &orderlog.RedisSink{}, sink)
		assert.NoError(t, sink.Record(ctx, testRecord()))
		assert.Equal(t, 1.0, storeCalls(m, metrics.OutcomeSuccess))
		assert.NoError(t, closer())
	})

	t.Run("blob", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.OrderLog.Sink = config.SinkBlob
		cfg.OrderLog.BucketURL = "mem://"
		bm := metrics.New()
		sink, closer, err := orderlog.Open(ctx, cfg, cl, bm)
		require.NoError(t, err)
		require.IsType(t, &orderlog.BlobSink{}, sink)
		assert.NoError(t, sink.Record(ctx, testRecord()))
		assert.Equal(t, 1.0, storeCalls(bm, metrics.OutcomeSuccess))
		assert.NoError(t, closer())
	})

	t.Run("bad bucket scheme", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.OrderLog.Sink = config.SinkBlob
		cfg.OrderLog.BucketURL = "nosuch://bucket"
		_, _, err := orderlog.Open(ctx, cfg, cl, m)
		assert.ErrorIs(t, err, orderlog.ErrOpenSink)
	})

	t.Run("unknown sink", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.OrderLog.Sink = "kafka"
		_, _, err := orderlog.Open(ctx, cfg, cl, m)
		assert.ErrorIs(t, err, config.ErrInvalidSink)
	})
}
