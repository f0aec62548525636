package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cropper"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/geometry"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
)

var cropCmd = &cobra.Command{
	Use:   "crop <original> <compressed>",
	Short: "Cut the same region out of an original and its compressed copy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawRect, _ := cmd.Flags().GetString("rect")
		format, _ := cmd.Flags().GetString("format")
		suffix, _ := cmd.Flags().GetString("suffix")

		rect, err := parseRect(rawRect)
		if err != nil {
			return err
		}
		if !rect.Confirmable() {
			return fmt.Errorf("rect %q is too small to crop", rawRect)
		}
		outFormat, err := models.ParseOutputFormat(format)
		if err != nil {
			return err
		}

		original, err := loadAsset(args[0])
		if err != nil {
			return err
		}
		compressed, err := loadAsset(args[1])
		if err != nil {
			return err
		}

		engine := cropper.New(env.GetInt("JPEG_QUALITY", cropper.DefaultJPEGQuality))
		croppedOriginal, croppedCompressed, err := engine.Crop(cmd.Context(), original, compressed, rect, outFormat)
		if err != nil {
			return err
		}

		for i, asset := range []models.ImageAsset{croppedOriginal, croppedCompressed} {
			name := strings.TrimSuffix(args[i], extOf(args[i])) + suffix + "." + outFormat.Extension()
			if err := os.WriteFile(name, asset.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d\n", name, asset.Width, asset.Height)
		}
		return nil
	},
}

func loadAsset(path string) (models.ImageAsset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ImageAsset{}, err
	}
	asset, err := imageprocessor.NewAsset(data)
	if err != nil {
		return models.ImageAsset{}, fmt.Errorf("%s: %w", path, err)
	}
	return asset, nil
}

// parseRect reads "x,y,width,height" in pixels of the original.
func parseRect(s string) (geometry.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Rect{}, fmt.Errorf("rect must be x,y,width,height, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("rect value %q: %w", p, err)
		}
		v[i] = f
	}
	return geometry.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func extOf(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[i:]
	}
	return ""
}

func init() {
	cropCmd.Flags().StringP("rect", "r", "", "Crop region as x,y,width,height")
	cropCmd.Flags().StringP("format", "f", string(models.FormatPNG), "Output format (jpeg or png)")
	cropCmd.Flags().String("suffix", ".cropped", "Suffix added to both output file names")
	_ = cropCmd.MarkFlagRequired("rect")
	rootCmd.AddCommand(cropCmd)
}
