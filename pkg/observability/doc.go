/*
Package observability provides tools for monitoring the logging-state controller.

It turns controller transition events into Prometheus metrics and exposes the call
counter and active flag as gauges read straight from the controller.
*/
package observability
