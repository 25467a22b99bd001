package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmegroup/adlib/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin API server",
	Long: `Start an HTTP server exposing the admin endpoints: save, upload-image, preview,
extract and revisions. Requires GITHUB_REPO and GITHUB_TOKEN, plus ADMIN_PASSWORD or
ADMIN_PASSWORD_HASH. DATABASE_URL enables the revision log.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default :8888, or :$PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	cfg.Addr = override(serveAddr, cfg.Addr)

	srv, err := server.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
