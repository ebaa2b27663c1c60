package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/stubserver"
)

var (
	stubAddr     string
	stubDelay    time.Duration
	stubFailFrom int
)

var stubCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run an in-memory RTI Agent backend for local development",
	Long: `Serves the same /chat and /history endpoints as the RTI Agent backend with
canned answers. Ask it to "draft" something and it replies with an RTI
application draft. Nothing is persisted.`,
	RunE: runStub,
}

func init() {
	stubCmd.Flags().StringVar(&stubAddr, "addr", "127.0.0.1:8000", "Address to listen on")
	stubCmd.Flags().DurationVar(&stubDelay, "delay", 0, "Artificial delay before every chat reply")
	stubCmd.Flags().IntVar(&stubFailFrom, "fail-after", 0, "Answer 500 after this many chat requests (0 never fails)")
	rootCmd.AddCommand(stubCmd)
}

func runStub(cmd *cobra.Command, args []string) error {
	logger.SetDebug(!quietMode)

	var opts []stubserver.Option
	if stubDelay > 0 {
		opts = append(opts, stubserver.WithDelay(stubDelay))
	}
	if stubFailFrom > 0 {
		opts = append(opts, stubserver.WithFailAfter(stubFailFrom))
	}

	srv := &http.Server{
		Addr:              stubAddr,
		Handler:           stubserver.New(opts...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "RTI stub backend listening on http://%s\n", stubAddr)
	logger.WithComponent("stubserver").Info("listening", "addr", stubAddr)
	return serve(ctx, srv)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
