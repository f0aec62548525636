package main

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pixelshrink-cli",
	Short: "Compress and crop images from the command line",
	Long: strings.TrimSpace(`
Runs the PixelShrink workflow without the browser: send an image through the
compression model and cut matching regions out of an original/compressed pair.
	`),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		env.SetupEnvFile()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error executing command: %v", err)
		os.Exit(1)
	}
}
