package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsyncr/dbsyncr"
	"github.com/dbsyncr/dbsyncr/internal/server"
)

var serveFlagAddr string

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve runs the reconciliation session behind an HTTP API: upload files
into slot A or B, manage the mapping, and download the combined result.
Uploaded datasets expire after the configured TTL.`,
	Example: `  dbsyncr serve
  dbsyncr serve --addr :9090
  DBSYNCR_TTL=15m dbsyncr serve --mappings mappings.yaml`,
	RunE: runServe,
}

var serveFlagMappings string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlagAddr, "addr", "", "Listen address (overrides DBSYNCR_ADDR)")
	serveCmd.Flags().StringVarP(&serveFlagMappings, "mappings", "m", "", "Mapping document loaded at startup (overrides DBSYNCR_MAPPINGS)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	opts := []dbsyncr.Option{dbsyncr.WithTTL(settings.TTL)}

	mappingsPath := settings.MappingsPath
	if serveFlagMappings != "" {
		mappingsPath = serveFlagMappings
	}
	if mappingsPath != "" {
		doc, err := os.ReadFile(mappingsPath)
		if err != nil {
			return err
		}
		opts = append(opts, dbsyncr.WithMappingDocument(doc))
	}

	sx, err := dbsyncr.New(opts...)
	if err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	cfg.Addr = settings.Addr
	if serveFlagAddr != "" {
		cfg.Addr = serveFlagAddr
	}

	return server.New(sx, cfg).ListenAndServe(cmd.Context(), settings.EvictionInterval)
}
