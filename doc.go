/*
Package logstate tracks whether a logging session is active, which path it writes to
and which path was used before it.

The state lives in memory for the lifetime of one process and is owned by a single
controller (pkg/controller). Adapters expose it over HTTP with an OpenAPI description
(pkg/adapters/http) and over the Model Context Protocol (pkg/adapters/mcp). Every
operation bumps a call counter used for diagnostics.

# Operations

  - start(path): begin logging to path. Starting the path already active is a no-op
    reported as requestStatus=false.
  - stop(): end the active session, remembering its path. Stopping while idle is a
    no-op reported as requestStatus=false.
  - status(): report the state.

# Usage

	package main

	import (
		"fmt"

		"github.com/aretw0/logstate/pkg/controller"
	)

	func main() {
		c := controller.New()
		res, err := c.Start("/var/log/app.log")
		if err != nil {
			panic(err) // only when the controller is poisoned
		}
		fmt.Println(res.Message) // Logging started
	}

The logstated command (cmd/logstated) wires the controller, the HTTP server, metrics,
the optional Redis event publisher and the MCP server.
*/
package logstate
