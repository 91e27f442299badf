package event

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireCallsEveryListener(t *testing.T) {
	bus := New()

	var calls int32
	bus.Listen("order.created", func(payload interface{}) {
		atomic.AddInt32(&calls, 1)
	})
	bus.Listen("order.created", func(payload interface{}) {
		atomic.AddInt32(&calls, 1)
	})

	bus.Fire("order.created", nil)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFirePassesPayload(t *testing.T) {
	bus := New()

	var got interface{}
	bus.Listen("order.deleted", func(payload interface{}) { got = payload })

	bus.Fire("order.deleted", map[string]uint{"order_id": 9})
	assert.Equal(t, map[string]uint{"order_id": 9}, got)
}

func TestFireUnknownEventIsNoop(t *testing.T) {
	bus := New()
	assert.NotPanics(t, func() { bus.Fire("nobody.listens", "x") })
}

func TestFireAsyncCompletesByWait(t *testing.T) {
	bus := New()

	var calls int32
	bus.Listen("order.updated", func(payload interface{}) {
		atomic.AddInt32(&calls, 1)
	})

	bus.FireAsync("order.updated", nil)
	bus.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
