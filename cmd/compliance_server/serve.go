package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/clinsight/compliance-review/internal/catalogue"
	"github.com/clinsight/compliance-review/internal/config"
	"github.com/clinsight/compliance-review/internal/matcher"
	"github.com/clinsight/compliance-review/internal/pipeline"
	"github.com/clinsight/compliance-review/internal/provider"
	"github.com/clinsight/compliance-review/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the compliance-review endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings := config.Load()
	if err := settings.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Catalogue load failure prevents the server from becoming ready.
	var (
		cat *catalogue.Catalogue
		err error
	)
	if settings.DatabaseURL != "" {
		cat, err = catalogue.LoadPostgres(ctx, settings.DatabaseURL)
	} else {
		cat, err = catalogue.LoadDir(settings.CatalogueDir)
	}
	if err != nil {
		return fmt.Errorf("failed to load reference catalogue: %w", err)
	}
	log.Printf("[catalogue] loaded %d compliance references", cat.Len())

	analyzer, err := provider.NewAnalyzer(ctx, settings.Processor)
	if err != nil {
		return fmt.Errorf("failed to create provider adapter: %w", err)
	}
	defer analyzer.Close()

	reviewer := pipeline.New(matcher.New(cat, settings.MinMatchScore), analyzer, settings.ReviewTimeout)

	srv := server.New(server.Config{
		Port:     servePort,
		Settings: settings,
		Reviewer: reviewer,
	})

	return srv.Start()
}
