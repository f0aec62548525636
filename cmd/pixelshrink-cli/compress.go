package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/compressor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

var compressCmd = &cobra.Command{
	Use:   "compress <image>",
	Short: "Compress one image with the Gemini model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		level, _ := cmd.Flags().GetString("level")
		out, _ := cmd.Flags().GetString("out")
		promptsFile, _ := cmd.Flags().GetString("prompts")

		settings := models.CompressionSettings{
			OutputFormat: models.OutputFormat(strings.ToLower(format)),
			Level:        models.CompressionLevel(strings.ToLower(level)),
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		prompts, err := compressor.LoadPrompts(promptsFile)
		if err != nil {
			return err
		}
		client := compressor.NewGeminiClient(compressor.GeminiConfig{
			APIKey:  env.GetEnv("GEMINI_API_KEY", ""),
			Model:   env.GetEnv("GEMINI_MODEL", compressor.DefaultModel),
			BaseURL: env.GetEnv("GEMINI_BASE_URL", compressor.DefaultBaseURL),
			Prompts: prompts,
		})

		ws := workspace.New("cli")
		if err := ws.UpdateSettings(settings); err != nil {
			return err
		}
		if _, err := ws.Select(filepath.Base(args[0]), data); err != nil {
			return err
		}

		timeout := env.GetDuration("COMPRESS_TIMEOUT", workspace.DefaultCompressTimeout)
		result, err := ws.Compress(cmd.Context(), client, timeout)
		if err != nil {
			if f := compressor.AsFailure(err); f != nil {
				return fmt.Errorf("%s (%w)", f.UserMessage(), err)
			}
			return err
		}

		if out == "" {
			out = outputName(args[0], workspace.DownloadFormat(*result))
		}
		if err := os.WriteFile(out, result.Asset.Data, 0o644); err != nil {
			return err
		}

		r := result.Reduction
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s, %s\n", out,
			humanize.IBytes(uint64(r.OriginalBytes)), humanize.IBytes(uint64(r.CompressedBytes)), r.Message())
		return nil
	},
}

// outputName places the compressed file next to the input.
func outputName(input string, format models.OutputFormat) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".compressed." + format.Extension()
}

func init() {
	compressCmd.Flags().StringP("format", "f", string(models.FormatJPEG), "Output format (jpeg or png)")
	compressCmd.Flags().StringP("level", "l", string(models.LevelMedium), "Compression level (low, medium or high)")
	compressCmd.Flags().StringP("out", "o", "", "Output file, defaults to <image>.compressed.<ext>")
	compressCmd.Flags().String("prompts", env.GetEnv("PROMPTS_FILE", ""), "YAML file overriding the level prompts")
	rootCmd.AddCommand(compressCmd)
}
