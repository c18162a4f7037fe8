// Package server wires the browserctl process together: configuration,
// logging, metrics, tracing, the browser controller, and the HTTP, WebSocket
// and gRPC surfaces over it.
package server
