package domain

import (
	"context"
	"time"
)

// TransitionEvent describes one completed controller operation.
// Seq is the call count right after the operation and gives observers a total order.
type TransitionEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
	Path      string    `json:"requestedPath,omitempty"`
	Seq       uint64    `json:"seq"`
	Result    Result    `json:"result"`
}

// Changed reports whether the operation modified the record beyond the counter.
func (e TransitionEvent) Changed() bool {
	return e.Operation != OpStatus && e.Result.Success
}

// Hooks defines callbacks for controller observability.
// They run after the controller lock is released.
type Hooks struct {
	OnTransition func(context.Context, *TransitionEvent)
}

// Chain combines several hook sets into one, invoked in order.
func Chain(hooks ...Hooks) Hooks {
	var fns []func(context.Context, *TransitionEvent)
	for _, h := range hooks {
		if h.OnTransition != nil {
			fns = append(fns, h.OnTransition)
		}
	}
	if len(fns) == 0 {
		return Hooks{}
	}
	return Hooks{
		OnTransition: func(ctx context.Context, e *TransitionEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		},
	}
}
