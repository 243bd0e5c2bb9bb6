/*
Package domain contains the core model of the logging-state service.

It defines the single mutable record tracked by the service, the immutable snapshots
handed out to callers, and the events emitted after every operation. This package is
kept pure and free of external dependencies like I/O, locking or transport.

# Key Entities

  - Record: the process-wide logging state (current path, previous path, active flag, call count).
  - Snapshot: the externally visible part of a Record at one point in time.
  - Result: a Snapshot plus the outcome of the operation that produced it.
  - TransitionEvent: what happened, emitted to observers after each operation.
*/
package domain
