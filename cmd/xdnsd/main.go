// Command xdnsd runs xdns in either authoritative or recursive mode: one
// goroutine serves DNS over UDP while another serves the admin HTTP API
// that populates zones or forwarders at runtime.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xdnsproj/xdns/api"
	"github.com/xdnsproj/xdns/auth"
	"github.com/xdnsproj/xdns/recursor"
	"github.com/xdnsproj/xdns/server"
	"github.com/xdnsproj/xdns/stats"
)

// shutdownTimeout bounds how long the admin HTTP server is given to
// drain in-flight requests on SIGINT/SIGTERM.
const shutdownTimeout = 5 * time.Second

func main() {
	root := &cobra.Command{
		Use:   "xdnsd",
		Short: "xdnsd serves DNS in authoritative or recursive mode",
	}
	root.AddCommand(authCmd(), recursorCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func authCmd() *cobra.Command {
	var dnsAddr, httpAddr string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "run an authoritative name server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(dnsAddr, httpAddr)
		},
	}
	cmd.Flags().StringVar(&dnsAddr, "dns", "", "address to serve DNS on, e.g. 0.0.0.0:53")
	cmd.Flags().StringVar(&httpAddr, "http", "", "address to serve the admin API on, e.g. 127.0.0.1:8080")
	cmd.MarkFlagRequired("dns")
	cmd.MarkFlagRequired("http")
	return cmd
}

func recursorCmd() *cobra.Command {
	var dnsAddr, httpAddr, reportURL string

	cmd := &cobra.Command{
		Use:   "recursor",
		Short: "run a recursive forwarding name server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecursor(dnsAddr, httpAddr, reportURL)
		},
	}
	cmd.Flags().StringVar(&dnsAddr, "dns", "", "address to serve DNS on, e.g. 0.0.0.0:53")
	cmd.Flags().StringVar(&httpAddr, "http", "", "address to serve the admin API on, e.g. 127.0.0.1:8080")
	cmd.Flags().StringVar(&reportURL, "report", "", "URL to POST query statistics to every 10s (disabled if empty)")
	cmd.MarkFlagRequired("dns")
	cmd.MarkFlagRequired("http")
	return cmd
}

func runAuth(dnsAddr, httpAddr string) error {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	a := auth.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: httpAddr, Handler: api.NewAuthRouter(a)}
	go func() {
		logger.Printf("xdnsd: admin API listening on %s", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("xdnsd: admin API error: %v", err)
		}
	}()

	udpSrv := server.New(a, logger)
	errCh := make(chan error, 1)
	go func() {
		logger.Printf("xdnsd: DNS (auth) listening on %s", dnsAddr)
		errCh <- udpSrv.Run(dnsAddr)
	}()

	return waitForShutdown(ctx, httpSrv, udpSrv, errCh, logger)
}

func runRecursor(dnsAddr, httpAddr, reportURL string) error {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	rec := recursor.New(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: httpAddr, Handler: api.NewRecursorRouter(rec)}
	go func() {
		logger.Printf("xdnsd: admin API listening on %s", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("xdnsd: admin API error: %v", err)
		}
	}()

	if reportURL != "" {
		reporter := stats.NewReporter(rec.Stat(), reportURL, 20, logger)
		go reporter.Run(ctx)
	}

	udpSrv := server.New(rec, logger)
	errCh := make(chan error, 1)
	go func() {
		logger.Printf("xdnsd: DNS (recursor) listening on %s", dnsAddr)
		errCh <- udpSrv.Run(dnsAddr)
	}()

	return waitForShutdown(ctx, httpSrv, udpSrv, errCh, logger)
}

func waitForShutdown(ctx context.Context, httpSrv *http.Server, udpSrv *server.UDPServer, udpErrCh <-chan error, logger *log.Logger) error {
	select {
	case <-ctx.Done():
		logger.Println("xdnsd: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpErr := httpSrv.Shutdown(shutdownCtx)
		if err := udpSrv.Close(); err != nil {
			logger.Printf("xdnsd: closing DNS socket: %v", err)
		}
		<-udpErrCh
		return httpErr
	case err := <-udpErrCh:
		return err
	}
}
