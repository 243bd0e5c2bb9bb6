package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/logstate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicPoisonsController(t *testing.T) {
	c := New()
	_, err := c.Start("/before")
	require.NoError(t, err)

	_, err = c.run(domain.OpStatus, "", func(*domain.Record) domain.Result {
		panic("boom")
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrControllerPoisoned))
	assert.Contains(t, err.Error(), "boom")

	// The lock was released and every later call fails the same way.
	_, err = c.Status()
	assert.ErrorIs(t, err, domain.ErrControllerPoisoned)
	_, err = c.Start("/after")
	assert.ErrorIs(t, err, domain.ErrControllerPoisoned)
	_, err = c.Stop()
	assert.ErrorIs(t, err, domain.ErrControllerPoisoned)
	_, err = c.Diagnostics()
	assert.ErrorIs(t, err, domain.ErrControllerPoisoned)
}

func TestPoisonedCallsDoNotEmit(t *testing.T) {
	emitted := 0
	c := New(WithHooks(domain.Hooks{
		OnTransition: func(_ context.Context, _ *domain.TransitionEvent) { emitted++ },
	}))

	_, _ = c.run(domain.OpStart, "/x", func(*domain.Record) domain.Result { panic("boom") })
	_, _ = c.Status()

	assert.Zero(t, emitted)
}
