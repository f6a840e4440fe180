package orderlog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gocloud.dev/blob"

	"github.com/zosconnect/orchestrate/internal/metrics"
	"github.com/zosconnect/orchestrate/pkg/api"
)

type (
	// BlobSink writes each order record as a JSON object in a bucket
	BlobSink struct {
		bucket  BucketWriter
		metrics *metrics.Metrics
		prefix  string
	}

	// BucketWriter is the part of *blob.Bucket the sink uses
	BucketWriter interface {
		WriteAll(context.Context, string, []byte, *blob.WriterOptions) error
	}
)

var ErrBucketRequired = errors.New("bucket is required")

var _ Sink = (*BlobSink)(nil)

// NewBlobSink creates a sink writing under prefix. m may be nil
func NewBlobSink(
	bucket BucketWriter, prefix string, m *metrics.Metrics,
) (*BlobSink, error) {
	if bucket == nil {
		return nil, ErrBucketRequired
	}
	return &BlobSink{
		bucket:  bucket,
		metrics: m,
		prefix:  prefix,
	}, nil
}

// Record writes rec to <prefix>/<date>/<id>.json
func (s *BlobSink) Record(ctx context.Context, rec *api.OrderRecord) error {
	if rec == nil {
		return ErrRecordRequired
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.bucket.WriteAll(ctx, buildRecordKey(s.prefix, rec), data,
		&blob.WriterOptions{ContentType: "application/json"},
	)
	return observe(s.metrics, start, err)
}

func buildRecordKey(prefix string, rec *api.OrderRecord) string {
	key := rec.Timestamp.UTC().Format("2006-01-02") + "/" + rec.ID + ".json"
	if prefix == "" {
		return key
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + key
}
