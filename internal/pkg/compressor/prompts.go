package compressor

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuelReschke/PixelShrink/app/models"
)

const promptTemplate = `You are an expert image compression engine. Your task is to re-render the following image, %s The final output format must be image/%s. Do not add any extra elements, text, or modifications. Keep the exact dimensions and composition of the input.`

var defaultLevelInstructions = map[models.CompressionLevel]string{
	models.LevelLow:    "reducing its file size slightly while keeping the visual quality practically identical to the original.",
	models.LevelMedium: "significantly reducing its file size while preserving as much visual quality as possible. The goal is high-quality compression.",
	models.LevelHigh:   "reducing its file size as much as possible. Visible quality loss is acceptable as long as the subject stays clearly recognizable.",
}

// PromptTable maps a compression level to its instruction text.
type PromptTable struct {
	levels map[models.CompressionLevel]string
}

// DefaultPrompts returns the built-in table.
func DefaultPrompts() *PromptTable {
	levels := make(map[models.CompressionLevel]string, len(defaultLevelInstructions))
	for k, v := range defaultLevelInstructions {
		levels[k] = v
	}
	return &PromptTable{levels: levels}
}

type promptFile struct {
	Levels map[string]string `yaml:"levels"`
}

// LoadPrompts reads level overrides from a YAML file:
//
//	levels:
//	  high: "reducing its file size aggressively ..."
//
// Levels missing in the file keep their default text. An empty path returns
// the defaults.
func LoadPrompts(path string) (*PromptTable, error) {
	table := DefaultPrompts()
	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	var f promptFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}
	for k, v := range f.Levels {
		level, err := models.ParseCompressionLevel(k)
		if err != nil {
			return nil, fmt.Errorf("prompts file: %w", err)
		}
		if v = strings.TrimSpace(v); v != "" {
			table.levels[level] = v
		}
	}
	return table, nil
}

// Instruction returns the level text, falling back to medium.
func (t *PromptTable) Instruction(level models.CompressionLevel) string {
	if v, ok := t.levels[level]; ok {
		return v
	}
	return t.levels[models.LevelMedium]
}

// Build renders the full prompt for one request.
func (t *PromptTable) Build(format models.OutputFormat, level models.CompressionLevel) string {
	return fmt.Sprintf(promptTemplate, t.Instruction(level), format)
}
