// Command browserctl is a client for the browserctl gRPC API.
//
//	browserctl start chrome https://example.com
//	browserctl url chrome
//	browserctl stop chrome
//	browserctl cleanup chrome
//	browserctl status
//
// The server address comes from --addr or BROWSERCTL_ADDRESS and defaults
// to localhost:50051.
package main
