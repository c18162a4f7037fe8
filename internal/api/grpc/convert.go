package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
)

// CodeTrailer carries the browserctl error code on failed calls.
const CodeTrailer = "browserctl-code"

// grpcCode maps a controller error to a gRPC status code.
func grpcCode(err error) codes.Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	switch browser.CodeOf(err) {
	case browser.ErrAlreadyRunning, browser.ErrNotRunning, browser.ErrStillRunning:
		return codes.FailedPrecondition
	case browser.ErrExecutableNotFound:
		return codes.Unavailable
	case browser.ErrSpawnFailed, browser.ErrQueryFailed, browser.ErrResetFailed:
		return codes.Internal
	case browser.ErrUnsupportedKind:
		return codes.InvalidArgument
	}
	return codes.Unknown
}

// toStatus converts err into a status error and attaches the browserctl
// code as a trailer.
func toStatus(ctx context.Context, err error) error {
	if code := browser.CodeOf(err); code != "" {
		_ = grpc.SetTrailer(ctx, metadata.Pairs(CodeTrailer, string(code)))
	}
	return status.Error(grpcCode(err), err.Error())
}

func instanceToMap(inst browser.Instance) map[string]any {
	m := map[string]any{
		"kind":    string(inst.Kind),
		"running": inst.Running,
	}
	if inst.Running {
		m["instance_id"] = inst.ID
		m["pid"] = inst.PID
		m["address"] = inst.Address
		m["started_at"] = inst.StartedAt.UTC().Format(time.RFC3339Nano)
		m["exited"] = inst.Exited
	}
	return m
}

func instanceFromStruct(s *structpb.Struct) browser.Instance {
	f := s.GetFields()
	inst := browser.Instance{
		Kind:    browser.Kind(f["kind"].GetStringValue()),
		Running: f["running"].GetBoolValue(),
		ID:      f["instance_id"].GetStringValue(),
		PID:     int(f["pid"].GetNumberValue()),
		Address: f["address"].GetStringValue(),
		Exited:  f["exited"].GetBoolValue(),
	}
	if ts := f["started_at"].GetStringValue(); ts != "" {
		inst.StartedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return inst
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}
