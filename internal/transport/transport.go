// Package transport defines the interface for pluggable request transports.
//
// Each transport (HTTP, gRPC, MQTT) implements this interface and hands every
// request it receives to the Service. The service doesn't care how requests
// arrive; it only works with the Transport contract.
package transport

import (
	"context"

	"github.com/nadzzz/deskpilot/internal/command"
	"github.com/nadzzz/deskpilot/internal/message"
)

// Service is what transports expose. The dispatcher implements it.
type Service interface {
	// Handle processes one request. It always returns a response.
	Handle(ctx context.Context, req *message.Request) *message.Response

	// Help returns the example phrases.
	Help() command.Help
}

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "grpc", "http", "mqtt").
	Name() string

	// Listen starts accepting requests and hands them to svc.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, svc Service) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
