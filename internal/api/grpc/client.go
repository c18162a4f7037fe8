package grpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/tracing"
)

// Client wraps a connection to a BrowserController service.
type Client struct {
	conn *grpc.ClientConn
	addr string
}

// Dial creates a client for addr. Extra options are appended to the
// defaults, which use plaintext transport.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                60 * time.Second,
			Timeout:             20 * time.Second,
			PermitWithoutStream: false,
		}),
		grpc.WithUnaryInterceptor(tracing.GRPCClientInterceptor()),
	}

	conn, err := grpc.NewClient(addr, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial browserctl: %w", err)
	}
	return &Client{conn: conn, addr: addr}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Addr returns the dialed address.
func (c *Client) Addr() string {
	return c.addr
}

// CleanupResult is the client view of a profile reset.
type CleanupResult struct {
	Dirs  []string
	Files int
	Bytes int64
}

// Start launches kind at url.
func (c *Client) Start(ctx context.Context, kind, url string) (browser.Instance, error) {
	req, err := structpb.NewStruct(map[string]any{"browser": kind, "url": url})
	if err != nil {
		return browser.Instance{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodStart, req, out); err != nil {
		return browser.Instance{}, err
	}
	return instanceFromStruct(out.GetFields()["instance"].GetStructValue()), nil
}

// Stop terminates kind.
func (c *Client) Stop(ctx context.Context, kind string) error {
	req, err := structpb.NewStruct(map[string]any{"browser": kind})
	if err != nil {
		return err
	}
	return c.conn.Invoke(ctx, MethodStop, req, new(emptypb.Empty))
}

// GetURL reads the active address of kind.
func (c *Client) GetURL(ctx context.Context, kind string) (string, error) {
	req, err := structpb.NewStruct(map[string]any{"browser": kind})
	if err != nil {
		return "", err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodGetURL, req, out); err != nil {
		return "", err
	}
	return stringField(out, "url"), nil
}

// Cleanup resets the profile of kind.
func (c *Client) Cleanup(ctx context.Context, kind string) (CleanupResult, error) {
	req, err := structpb.NewStruct(map[string]any{"browser": kind})
	if err != nil {
		return CleanupResult{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodCleanup, req, out); err != nil {
		return CleanupResult{}, err
	}

	f := out.GetFields()
	res := CleanupResult{
		Files: int(f["files"].GetNumberValue()),
		Bytes: int64(f["bytes"].GetNumberValue()),
	}
	for _, v := range f["dirs"].GetListValue().GetValues() {
		res.Dirs = append(res.Dirs, v.GetStringValue())
	}
	return res, nil
}

// Status lists every supported browser.
func (c *Client) Status(ctx context.Context) ([]browser.Instance, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodStatus, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	var list []browser.Instance
	for _, v := range out.GetFields()["browsers"].GetListValue().GetValues() {
		list = append(list, instanceFromStruct(v.GetStructValue()))
	}
	return list, nil
}
