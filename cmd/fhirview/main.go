package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/fhirview/internal/config"
	"github.com/ehr/fhirview/internal/domain/resources"
	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/logging"
	"github.com/ehr/fhirview/internal/platform/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fhirview",
		Short:        "Normalize FHIR resources of any version into canonical records",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(typesCmd())
	return rootCmd
}

// app holds what every command needs once config is loaded.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *normalize.Registry
	metadata normalize.MetadataTable
}

func newApp(logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(cfg, logOut)

	metadata, err := config.LoadMetadata(cfg.MetadataFile)
	if err != nil {
		return nil, err
	}
	registry, err := resources.NewRegistry()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, registry: registry, metadata: metadata}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the preview HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	a, err := newApp(os.Stdout)
	if err != nil {
		return err
	}
	logger := a.logger

	srv := server.New(a.cfg, logger, a.registry, a.metadata)

	// Graceful shutdown
	go func() {
		addr := ":" + a.cfg.Port
		logger.Info().Str("addr", addr).Str("fhir_version", a.cfg.FHIRVersion).Msg("starting server")
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the supported record types and their FHIR versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := normalize.NewRegistry()
			resources.Register(r)
			return listTypes(cmd.OutOrStdout(), r)
		},
	}
}

// listTypes prints one line per type. It fails when a type is missing a
// version extractor, after printing what is there.
func listTypes(out io.Writer, r *normalize.Registry) error {
	for _, name := range r.Types() {
		versions := r.Versions(name)
		tags := make([]string, len(versions))
		for i, v := range versions {
			tags[i] = v.String()
		}
		fmt.Fprintf(out, "%s\t%s\t%d fields\n", name, strings.Join(tags, ","), len(r.Schema(name)))
	}
	return r.Validate()
}
