package simGrpc

import (
	"context"

	"asyncsim/config"
	"asyncsim/simulator"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// A client of the asyncsim.Simulation service
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn
}

// Connect to the simulation service at addr.
//
// The connection does not use transport security unless other credentials are provided in opts.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.Dial(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: conn, conn: conn}, nil
}

// Create a client using an existing connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Run the simulation remotely and return its final report
func (c *Client) Run(ctx context.Context, cfg config.Config, opts ...grpc.CallOption) (simulator.FinalReport, error) {
	in, err := ConfigStruct(cfg)
	if err != nil {
		return simulator.FinalReport{}, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RunMethod, in, out, opts...); err != nil {
		return simulator.FinalReport{}, err
	}
	return simulator.ReportFromStruct(out)
}

// Fetch the default configuration of the server
func (c *Client) Defaults(ctx context.Context, opts ...grpc.CallOption) (config.Config, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DefaultsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return config.Config{}, err
	}
	return ConfigFromStruct(out)
}

// Close the connection if the client created it
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
