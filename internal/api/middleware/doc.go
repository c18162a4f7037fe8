// Package middleware holds the gin middleware shared by the browserctl
// HTTP server: CORS and per-client rate limiting.
package middleware
