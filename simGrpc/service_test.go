package simGrpc

import (
	"context"
	"net"
	"testing"

	"asyncsim"
	"asyncsim/config"
	"asyncsim/logging"
	"asyncsim/simulator"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const bufSize = 1024 * 1024

func startServer(t *testing.T) *Client {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	srv := NewServer(logging.NewNullLogger(), logging.NewNullLogger())
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	client, err := Dial(
		"bufnet",
		grpc.WithContextDialer(func(ctx context.Context, s string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRunEqualsLocalRun(t *testing.T) {
	client := startServer(t)
	for _, cfg := range runConfigs() {
		local, err := asyncsim.Run(context.Background(), cfg)
		require.NoError(t, err)
		s, err := local.Struct()
		require.NoError(t, err)
		expected, err := simulator.ReportFromStruct(s)
		require.NoError(t, err)

		remote, err := client.Run(context.Background(), cfg)
		require.NoError(t, err)
		require.Equal(t, expected, remote)
	}
}

func TestRunInvalidConfiguration(t *testing.T) {
	client := startServer(t)
	cfg := config.Default()
	cfg.Nodes = 0
	_, err := client.Run(context.Background(), cfg)
	require.Error(t, err)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	cfg = config.Default()
	cfg.Protocol = config.ProtocolConsensus
	cfg.Nodes = 4
	cfg.Faults = 2
	_, err = client.Run(context.Background(), cfg)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRunUnknownField(t *testing.T) {
	client := startServer(t)
	in, err := structpb.NewStruct(map[string]interface{}{"nodes": 3, "bogus": true})
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = client.cc.Invoke(context.Background(), RunMethod, in, out)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestDefaults(t *testing.T) {
	client := startServer(t)
	cfg, err := client.Defaults(context.Background())
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestConfigStructRoundTrip(t *testing.T) {
	budget := 2
	cfg := config.Default()
	cfg.Nodes = 4
	cfg.FaultInjector = config.FaultsProbabilistic
	cfg.FaultProbability = 0.25
	cfg.MaxFaults = &budget
	s, err := ConfigStruct(cfg)
	require.NoError(t, err)
	got, err := ConfigFromStruct(s)
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	got, err = ConfigFromStruct(nil)
	require.NoError(t, err)
	require.Equal(t, config.Default(), got)
}

func runConfigs() []config.Config {
	echo := config.Default()
	echo.Nodes = 4
	echo.Traffic = config.TrafficAllToAll
	echo.MaxSteps = 80
	echo.AnalysisInterval = 10

	consensus := config.Default()
	consensus.Nodes = 4
	consensus.Faults = 1
	consensus.Rounds = 2
	consensus.Protocol = config.ProtocolConsensus
	consensus.MaxSteps = 0
	consensus.Seed = 3

	return []config.Config{echo, consensus}
}
