// Package grpc exposes the browser controller as the
// browserctl.v1.BrowserController gRPC service, plus a typed client.
//
// Messages are protobuf well-known types (google.protobuf.Struct and
// google.protobuf.Empty), so the service needs no generated code. Request
// structs carry "browser" and, for Start, "url".
//
// Controller error codes map onto gRPC status codes:
//   - already_running, not_running, still_running: FailedPrecondition
//   - executable_not_found: Unavailable
//   - spawn_failed, query_failed, reset_failed: Internal
//   - unsupported_kind and missing parameters: InvalidArgument
//   - context deadline: DeadlineExceeded
//
// The browserctl error code travels in the "browserctl-code" trailer.
package grpc
