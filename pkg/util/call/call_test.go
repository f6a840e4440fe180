package call_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zosconnect/orchestrate/pkg/util/call"
)

func TestPerform(t *testing.T) {
	t.Run("runs calls in order", func(t *testing.T) {
		var order []int

		err := call.Perform(
			func() error {
				order = append(order, 1)
				return nil
			},
			func() error {
				order = append(order, 2)
				return nil
			},
		)

		assert.NoError(t, err)
		assert.Equal(t, []int{1, 2}, order)
	})

	t.Run("stops on first error", func(t *testing.T) {
		want := errors.New("boom")
		var order []int

		err := call.Perform(
			func() error {
				order = append(order, 1)
				return nil
			},
			func() error {
				order = append(order, 2)
				return want
			},
			func() error {
				order = append(order, 3)
				return nil
			},
		)

		assert.Equal(t, want, err)
		assert.Equal(t, []int{1, 2}, order)
	})

	t.Run("halt stops without error", func(t *testing.T) {
		var order []int

		err := call.Perform(
			func() error {
				order = append(order, 1)
				return fmt.Errorf("%w: not found", call.ErrHalt)
			},
			func() error {
				order = append(order, 2)
				return nil
			},
		)

		assert.NoError(t, err)
		assert.Equal(t, []int{1}, order)
	})
}

func TestSequence(t *testing.T) {
	t.Run("passes context", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "v")

		var got []any
		err := call.Sequence(ctx,
			func(ctx context.Context) error {
				got = append(got, ctx.Value(key{}))
				return nil
			},
			func(ctx context.Context) error {
				got = append(got, ctx.Value(key{}))
				return nil
			},
		)

		assert.NoError(t, err)
		assert.Equal(t, []any{"v", "v"}, got)
	})

	t.Run("cancelled context skips stages", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0

		err := call.Sequence(ctx,
			func(context.Context) error {
				calls++
				cancel()
				return nil
			},
			func(context.Context) error {
				calls++
				return nil
			},
		)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
