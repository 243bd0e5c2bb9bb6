package domain

import "errors"

// ErrControllerPoisoned is returned once a panic escaped a critical section.
// The record can no longer be trusted and every later call fails with it.
var ErrControllerPoisoned = errors.New("state controller poisoned")
