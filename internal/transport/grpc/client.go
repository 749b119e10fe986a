package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/nadzzz/deskpilot/internal/command"
	"github.com/nadzzz/deskpilot/internal/message"
)

// Client calls a remote Commander service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// ProcessCommand submits free text and returns the rendered response.
func (c *Client) ProcessCommand(ctx context.Context, req *CommandRequest, opts ...grpc.CallOption) (*message.Response, error) {
	out := new(message.Response)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ProcessCommand", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetHelp fetches the example phrases.
func (c *Client) GetHelp(ctx context.Context, opts ...grpc.CallOption) (*command.Help, error) {
	out := new(command.Help)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetHelp", &HelpRequest{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
