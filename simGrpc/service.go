package simGrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"asyncsim"
	"asyncsim/config"
	"asyncsim/logging"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName    = "asyncsim.Simulation"
	RunMethod      = "/asyncsim.Simulation/Run"
	DefaultsMethod = "/asyncsim.Simulation/Defaults"
)

// The methods of the asyncsim.Simulation service.
//
// Configurations and reports are sent as protobuf Structs holding their JSON form.
type SimulationServer interface {
	// Run the simulation described by the configuration and return the final report
	Run(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Return the default configuration
	Defaults(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Run", Handler: runHandler},
		{MethodName: "Defaults", Handler: defaultsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "asyncsim/simulation",
}

func runHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulationServer).Run(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RunMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SimulationServer).Run(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func defaultsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulationServer).Defaults(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DefaultsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SimulationServer).Defaults(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Register the simulation service on the grpc server
func Register(s *grpc.Server, srv SimulationServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type simulationServer struct {
	logger logging.LoggerI
}

// Create a SimulationServer running the simulations in the handler goroutine.
// The simulations log with the provided logger.
func NewSimulationServer(logger logging.LoggerI) *simulationServer {
	return &simulationServer{logger: logger}
}

func (s *simulationServer) Run(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := ConfigFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	report, err := asyncsim.Run(ctx, cfg, asyncsim.WithLogger(s.logger))
	switch {
	case errors.Is(err, config.ConfigurationError):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, status.FromContextError(err).Err()
	}
	// Failures of the simulation itself are part of the report
	out, err := report.Struct()
	if err != nil {
		return nil, status.Errorf(codes.Internal, "unable to encode report: %v", err)
	}
	return out, nil
}

func (s *simulationServer) Defaults(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	out, err := ConfigStruct(config.Default())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "unable to encode configuration: %v", err)
	}
	return out, nil
}

// Convert the configuration to a protobuf Struct using its JSON field names
func ConfigStruct(cfg config.Config) (*structpb.Struct, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// Decode and validate a configuration sent as a protobuf Struct.
//
// Missing fields keep their default value.
// A nil Struct gives the default configuration.
func ConfigFromStruct(s *structpb.Struct) (config.Config, error) {
	if s == nil {
		return config.Default(), nil
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return config.Config{}, fmt.Errorf("%w: %v", config.ConfigurationError, err)
	}
	return config.ParseJSON(data)
}
