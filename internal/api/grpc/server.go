package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/logging"
)

// Server implements BrowserControllerServer over a browser.Service.
type Server struct {
	controller browser.Service
	logger     *logging.Logger
	timeout    time.Duration
}

// NewServer creates a gRPC service. A zero timeout leaves the caller's
// deadline in charge.
func NewServer(controller browser.Service, logger *logging.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{controller: controller, logger: logger, timeout: timeout}
}

// Start launches a browser.
func (s *Server) Start(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := s.kind(req)
	if err != nil {
		return nil, err
	}
	url := stringField(req, "url")
	if url == "" {
		return nil, status.Error(codes.InvalidArgument, "url is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	inst, err := s.controller.Launch(ctx, kind, url)
	if err != nil {
		return nil, s.fail(ctx, "Start", err)
	}
	return structpb.NewStruct(map[string]any{"instance": instanceToMap(inst)})
}

// Stop terminates a browser.
func (s *Server) Stop(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	kind, err := s.kind(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.controller.Terminate(ctx, kind); err != nil {
		return nil, s.fail(ctx, "Stop", err)
	}
	return &emptypb.Empty{}, nil
}

// GetURL reads the active address.
func (s *Server) GetURL(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := s.kind(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	url, err := s.controller.QueryAddress(ctx, kind)
	if err != nil {
		return nil, s.fail(ctx, "GetURL", err)
	}
	return structpb.NewStruct(map[string]any{"url": url})
}

// Cleanup resets a profile.
func (s *Server) Cleanup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := s.kind(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.controller.ResetProfile(ctx, kind)
	if err != nil {
		return nil, s.fail(ctx, "Cleanup", err)
	}

	dirs := make([]any, len(res.Dirs))
	for i, d := range res.Dirs {
		dirs[i] = d
	}
	return structpb.NewStruct(map[string]any{
		"dirs":  dirs,
		"files": res.Files,
		"bytes": res.Bytes,
	})
}

// Status lists the table state.
func (s *Server) Status(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	list := s.controller.Status()
	browsers := make([]any, len(list))
	for i, inst := range list {
		browsers[i] = instanceToMap(inst)
	}
	return structpb.NewStruct(map[string]any{"browsers": browsers})
}

func (s *Server) kind(req *structpb.Struct) (browser.Kind, error) {
	name := stringField(req, "browser")
	if name == "" {
		return "", status.Error(codes.InvalidArgument, "browser is required")
	}
	kind, err := browser.ParseKind(name)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	return kind, nil
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Server) fail(ctx context.Context, method string, err error) error {
	s.logger.Debug("grpc call failed", zap.String("method", method), zap.Error(err))
	return toStatus(ctx, err)
}

var _ BrowserControllerServer = (*Server)(nil)
