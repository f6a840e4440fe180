package assert

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/internal/config"
)

// Wrapper wraps testify assertions with orchestration-specific helpers
type Wrapper struct {
	*testing.T
	*assert.Assertions
}

// New creates a new test assertion wrapper around testify's assertions
func New(t *testing.T) *Wrapper {
	return &Wrapper{
		T:          t,
		Assertions: assert.New(t),
	}
}

// ConfigValid asserts that a configuration is valid
func (w *Wrapper) ConfigValid(cfg *config.Config) {
	w.Helper()
	w.NoError(cfg.Validate())
}

// ConfigInvalid asserts that a configuration is invalid
func (w *Wrapper) ConfigInvalid(cfg *config.Config, contains string) {
	w.Helper()
	err := cfg.Validate()
	w.Error(err)
	if err != nil && contains != "" {
		w.Contains(err.Error(), contains)
	}
}

// JSONKeys asserts that body is a JSON object holding exactly keys and
// returns the decoded object
func (w *Wrapper) JSONKeys(body []byte, keys ...string) map[string]any {
	w.Helper()
	var got map[string]any
	if !w.NoError(json.Unmarshal(body, &got)) {
		return nil
	}
	w.ElementsMatch(keys, slices.Collect(maps.Keys(got)))
	return got
}

// UpstreamFailure asserts that err is an upstream failure of the named
// service carrying the expected HTTP status
func (w *Wrapper) UpstreamFailure(err error, upstream string, status int) {
	w.Helper()
	w.ErrorIs(err, client.ErrUpstream)
	var ue *client.UpstreamError
	if w.True(errors.As(err, &ue)) {
		w.Equal(upstream, ue.Upstream)
		w.Equal(status, ue.Status)
	}
}
