// Package main provides the adlib CLI: it builds the annotated site page from the
// content document, extracts the document back out of edited pages, checks pages and
// documents, and serves the admin API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "adlib",
	Short:         "Annotated static site builder and content extractor",
	Long:          "adlib renders content.json into an annotated index.html and rebuilds content.json from annotated HTML, so the page can be edited either way.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a JSON config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
