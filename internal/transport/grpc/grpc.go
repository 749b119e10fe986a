// Package grpc implements the gRPC transport for deskpilot.
//
// The server exposes deskpilot.v1.Commander with two unary methods,
// ProcessCommand and GetHelp, whose messages travel as JSON (content-subtype
// "json"). It also serves the standard grpc.health.v1 service so
// orchestrators can probe it.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/nadzzz/deskpilot/internal/command"
	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/message"
	"github.com/nadzzz/deskpilot/internal/transport"
)

// ServiceName is the fully qualified Commander service name.
const ServiceName = "deskpilot.v1.Commander"

// CommandRequest is the ProcessCommand input.
type CommandRequest struct {
	Command      string               `json:"command"`
	Source       string               `json:"source,omitempty"`
	ResponseMode message.ResponseMode `json:"response_mode,omitempty"`
}

// HelpRequest is the (empty) GetHelp input.
type HelpRequest struct{}

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port int

	mu     sync.Mutex
	server *grpc.Server
	health *health.Server
}

// New creates a new gRPC transport from config.
func New(cfg config.GRPCConfig) *Transport {
	return &Transport{port: cfg.Port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to svc.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	lis, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(t.port)))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.Serve(ctx, lis, svc)
}

// Serve runs the server on lis until ctx is cancelled or Close is called.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, svc transport.Service) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary))
	srv.RegisterService(&serviceDesc, &commander{svc: svc})

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	t.mu.Lock()
	t.server, t.health = srv, hs
	t.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		slog.Info("grpc transport shutting down")
		_ = t.Close()
	})
	defer stop()

	if err := srv.Serve(lis); err != nil {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Close marks the service as not serving and gracefully stops the server.
func (t *Transport) Close() error {
	t.mu.Lock()
	srv, hs := t.server, t.health
	t.mu.Unlock()
	if srv == nil {
		return nil
	}
	hs.Shutdown()
	srv.GracefulStop()
	return nil
}

type commanderServer interface {
	ProcessCommand(ctx context.Context, req *CommandRequest) (*message.Response, error)
	GetHelp(ctx context.Context, req *HelpRequest) (*command.Help, error)
}

type commander struct {
	svc transport.Service
}

func (c *commander) ProcessCommand(ctx context.Context, req *CommandRequest) (*message.Response, error) {
	source := req.Source
	if source == "" {
		source = "grpc"
	}
	return c.svc.Handle(ctx, &message.Request{
		Source:       source,
		Command:      req.Command,
		ResponseMode: req.ResponseMode,
		Timestamp:    time.Now(),
	}), nil
}

func (c *commander) GetHelp(context.Context, *HelpRequest) (*command.Help, error) {
	help := c.svc.Help()
	return &help, nil
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*commanderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ProcessCommand", Handler: processCommandHandler},
		{MethodName: "GetHelp", Handler: getHelpHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "deskpilot/v1/commander",
}

func processCommandHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CommandRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(commanderServer).ProcessCommand(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ProcessCommand"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(commanderServer).ProcessCommand(ctx, req.(*CommandRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getHelpHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(HelpRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(commanderServer).GetHelp(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetHelp"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(commanderServer).GetHelp(ctx, req.(*HelpRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		slog.Warn("grpc call failed", "method", info.FullMethod, "duration", time.Since(start), "error", err)
	} else {
		slog.Debug("grpc call", "method", info.FullMethod, "duration", time.Since(start))
	}
	return resp, err
}
