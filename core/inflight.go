package core

import (
	"context"

	"github.com/huangsam/storecast/internal/contract"
	"golang.org/x/sync/singleflight"
)

// inflight coalesces identical submissions that are in progress at the same time.
var inflight singleflight.Group

// shareCall runs call once per key among concurrent callers. Each caller waits on its own
// context, so abandoning a request does not fail the others sharing the upstream call.
func shareCall[T any](ctx context.Context, key string, call func(context.Context) (T, error)) (T, error) {
	ch := inflight.DoChan(key, func() (any, error) {
		return call(context.WithoutCancel(ctx))
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, contract.NewRequestError(contract.ReasonTransport, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		value, _ := res.Val.(T)
		return value, nil
	}
}
