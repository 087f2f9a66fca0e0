package simGrpc

import (
	"context"
	"time"

	"asyncsim/logging"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Create a UnaryServerInterceptor that logs every call together with its status code and duration.
// Failed calls are logged as warnings.
func UnaryServerLoggingInterceptor(logger logging.LoggerI) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		if err != nil {
			logger.Warnf("%v: %v after %v: %v", info.FullMethod, code, time.Since(start), err)
		} else {
			logger.Infof("%v: %v after %v", info.FullMethod, code, time.Since(start))
		}
		return resp, err
	}
}

// Create a grpc server with the simulation service registered.
//
// The server logs its calls with logger while the simulations log with simLogger.
func NewServer(logger, simLogger logging.LoggerI, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(UnaryServerLoggingInterceptor(logger)))
	srv := grpc.NewServer(opts...)
	Register(srv, NewSimulationServer(simLogger))
	return srv
}
