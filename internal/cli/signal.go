package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// ErrSignal is the cancellation cause of a context returned by SignalContext.
type ErrSignal struct {
	Signal os.Signal
}

func (e ErrSignal) Error() string {
	return fmt.Sprintf("received signal %v", e.Signal)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM. The signal is
// recorded as the context cause, so context.Cause reports which one arrived.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			cancel(ErrSignal{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}
