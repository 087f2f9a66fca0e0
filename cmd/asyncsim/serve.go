package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"asyncsim/simGrpc"

	"github.com/spf13/cobra"
)

var addr = ":50051"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve simulations over grpc",
	RunE: func(cmd *cobra.Command, args []string) error {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		srv := simGrpc.NewServer(l, l)
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Serve(lis)
		}()
		l.Infof("Serving %v on %v", simGrpc.ServiceName, lis.Addr())

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-stop:
			l.Infof("Exit signal %s received", s)
			srv.GracefulStop()
			return nil
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", addr, "address to listen on")
}
