// Package main is the entry point for the browserctl server.
//
// The server lets a remote caller start, stop, inspect and reset a local
// Chrome or Firefox without shell access to the machine.
//
// The server provides:
//   - REST API under /api (start, stop, geturl, cleanup, status)
//   - WebSocket event stream at /api/events
//   - gRPC service browserctl.v1.BrowserController
//   - Prometheus metrics at /metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Optional browser catalog file for executable and profile locations
//
// Usage:
//
//	# Production mode
//	./server -port 8080 -grpc-port 50051
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, managed browsers are terminated
package main
