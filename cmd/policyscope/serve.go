package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr   string
	flagServeStrict bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve policies, stats and reports over HTTP",
	Long: `Serve starts the JSON API. Policies are served from the cache while it is
fresh and re-fetched from Graph when it expires or on POST /api/refresh.

Examples:
  policyscope serve
  policyscope serve -c policyscope.yaml --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default: server.addr)")
	serveCmd.Flags().BoolVar(&flagServeStrict, "strict", false, "Drop records that fail validation")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(flagServeStrict)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.server().ListenAndServe(ctx, addr)
}
