package capkit_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/capkit"
	"github.com/hupe1980/capkit/core"
	"github.com/hupe1980/capkit/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime_DefaultsAndRegistration(t *testing.T) {
	rt := capkit.New()
	rt.RegisterFunc("b_action", "", func(_ *core.HandlerContext, _ map[string]any) (any, error) { return nil, nil })
	rt.Register(dispatch.NewFuncAction("a_action", "", func(_ *core.HandlerContext, _ map[string]any) (any, error) { return nil, nil }))

	assert.Equal(t, []string{"a_action", "b_action"}, rt.Actions())
	assert.Zero(t, rt.Stats().OperationsCount)
	assert.Zero(t, rt.CacheLen())
}

func TestRuntime_DispatchAccounting(t *testing.T) {
	rt := capkit.New(func(o *capkit.Options) { o.Actor = "widget" })
	rt.RegisterFunc("ok", "", func(_ *core.HandlerContext, _ map[string]any) (any, error) { return "fine", nil })
	rt.RegisterFunc("bad", "", func(_ *core.HandlerContext, _ map[string]any) (any, error) { return nil, errors.New("nope") })

	rt.Dispatch("ok", nil)
	rt.Dispatch("bad", nil)
	rt.Dispatch("missing", nil)

	stats := rt.Stats()
	assert.Equal(t, uint64(3), stats.OperationsCount)
	assert.Equal(t, uint64(2), stats.ErrorsCount)

	tail := rt.AuditTail(3)
	require.Len(t, tail, 3)
	assert.Equal(t, "widget", tail[0].Actor)
	assert.Len(t, rt.ErrorRecords(), 2)
}

func TestRuntime_DispatchEach(t *testing.T) {
	rt := capkit.New(func(o *capkit.Options) { o.MaxConcurrentDispatches = 2 })
	rt.RegisterFunc("echo", "", func(_ *core.HandlerContext, payload map[string]any) (any, error) {
		return payload["n"], nil
	})

	reqs := make([]capkit.Request, 8)
	for i := range reqs {
		reqs[i] = capkit.Request{Action: "echo", Payload: map[string]any{"n": float64(i)}}
	}

	outcomes := rt.DispatchEach(context.Background(), reqs)
	require.Len(t, outcomes, 8)
	for i, out := range outcomes {
		require.True(t, out.Success)
		assert.Equal(t, float64(i), out.Result)
	}

	// All mutations serialized on the runtime lock; accounting stays exact.
	assert.Equal(t, uint64(8), rt.Stats().OperationsCount)
	assert.Zero(t, rt.Stats().ErrorsCount)
}

func TestRuntime_DispatchEachCancelled(t *testing.T) {
	rt := capkit.New()
	rt.RegisterFunc("echo", "", func(_ *core.HandlerContext, payload map[string]any) (any, error) {
		return payload, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := rt.DispatchEach(ctx, []capkit.Request{{Action: "echo"}, {Action: "echo"}})
	require.Len(t, outcomes, 2)
	for _, out := range outcomes {
		require.False(t, out.Success)
		assert.Equal(t, core.KindExecution, out.Err.Kind)
	}
}

func TestRuntime_SweepCache(t *testing.T) {
	rt := capkit.New()
	rt.RegisterFunc("remember", "", func(hc *core.HandlerContext, payload map[string]any) (any, error) {
		hc.Cache().Set(payload["key"].(string), payload["value"], 0)
		return nil, nil
	})

	rt.Dispatch("remember", map[string]any{"key": "a", "value": 1.0})
	rt.Dispatch("remember", map[string]any{"key": "b", "value": 2.0})

	assert.Equal(t, 2, rt.CacheLen())
	assert.Equal(t, 0, rt.SweepCache()) // nothing expired yet
	assert.False(t, rt.Stats().LastCleanup.IsZero())
}

func TestRuntime_StoreIsolationBetweenRuntimes(t *testing.T) {
	put := func(hc *core.HandlerContext, payload map[string]any) (any, error) {
		return hc.Store().Put("items", payload), nil
	}
	count := func(hc *core.HandlerContext, _ map[string]any) (any, error) {
		return hc.Store().Len("items"), nil
	}

	a := capkit.New()
	a.RegisterFunc("put", "", put)
	a.RegisterFunc("count", "", count)
	b := capkit.New()
	b.RegisterFunc("count", "", count)

	a.Dispatch("put", map[string]any{"n": 1.0})
	require.True(t, a.Dispatch("count", nil).Success)
	assert.Equal(t, 1, a.Dispatch("count", nil).Result)
	assert.Equal(t, 0, b.Dispatch("count", nil).Result)
}

func TestRuntime_ExampleScenario(t *testing.T) {
	// A miniature calendar plugin wired end to end through the façade.
	rt := capkit.New(func(o *capkit.Options) { o.Actor = "calendar" })
	rt.RegisterFunc("create_event", "", func(hc *core.HandlerContext, payload map[string]any) (any, error) {
		id := hc.Store().Put("events", payload)
		return map[string]any{"event_id": id}, nil
	})
	rt.RegisterFunc("get_event", "", func(hc *core.HandlerContext, payload map[string]any) (any, error) {
		id, _ := payload["event_id"].(string)
		return hc.Store().Get("events", id)
	})

	out := rt.Dispatch("create_event", map[string]any{"title": "standup"})
	require.True(t, out.Success)
	id := out.Result.(map[string]any)["event_id"].(string)

	out = rt.Dispatch("get_event", map[string]any{"event_id": id})
	require.True(t, out.Success)
	assert.Equal(t, "standup", out.Result.(map[string]any)["title"])

	out = rt.Dispatch("get_event", map[string]any{"event_id": "missing"})
	require.False(t, out.Success)
	assert.Equal(t, core.KindNotFound, out.Err.Kind)
	assert.Contains(t, out.Err.Message, fmt.Sprintf("events/%s", "missing"))
}
