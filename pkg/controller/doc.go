/*
Package controller implements the logging-state controller.

A Controller owns the single domain.Record of a running instance and serializes every
read and write to it. Each operation (Start, Stop, Status) runs as one critical section:
lock, bump the call counter, apply the transition, copy the snapshot, unlock. Hooks are
invoked afterwards, outside the lock.

Redundant requests (starting the path that is already active, stopping while idle) are
not errors: they come back with Result.Success == false and an explanatory message. The
only error a Controller returns is domain.ErrControllerPoisoned, after a panic escaped a
critical section and left the record in an unknown state.
*/
package controller
