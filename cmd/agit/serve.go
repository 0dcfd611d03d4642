package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/agit/internal/rpc"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring context over gRPC",
	Long: `Serve exposes Analyze, Braid, Evaluate, Record and UpdateWeights for one
repository's scoring context so agent loops can run out of process
(agit run --remote).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.address)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	addr := s.cfg.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	gs := rpc.NewServer(s.scoring, s.logger).GRPCServer()
	errCh := make(chan error, 1)
	go func() { errCh <- gs.Serve(lis) }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("scoring service listening",
		zap.String("addr", lis.Addr().String()),
		zap.String("service", rpc.ServiceName),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%s on %s\n", cyan(rpc.ServiceName), lis.Addr())

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		gs.GracefulStop()
		return nil
	}
}
