// Package config loads and saves the pipeline's settings file: the
// world path, ordered archive list, solid-block ID list, and output
// directory (§6's "invocation surface" external collaborator).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the external collaborator §6 names as an implicit
// configuration holding the world path and archive order.
type Config struct {
	WorldDir    string   `yaml:"worldDir"`
	Archives    []string `yaml:"archives"`
	SolidBlocks []string `yaml:"solidBlocks"`
	OutputDir   string   `yaml:"outputDir"`
	Concurrency int      `yaml:"concurrency"`
	RandomSeed  uint64   `yaml:"randomSeed"`
}

// defaultConfig mirrors the teacher's defaultSettings() pattern: a
// fully-populated zero-argument starting point rather than relying on
// Go's zero values, so a user editing the saved file sees every knob.
func defaultConfig() Config {
	return Config{
		Archives:    nil,
		SolidBlocks: defaultSolidBlocks(),
		OutputDir:   "output",
		Concurrency: 4,
		RandomSeed:  1,
	}
}

// Load reads a YAML settings file, filling in defaults for any field
// the file omits so older config files stay valid as new fields are
// added.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg, nil
}

// Save persists the config back to disk, mirroring the teacher's
// Provider.SaveSettings save-back shape.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// defaultSolidBlocks lists the base IDs that render as opaque cubes
// for cull-face purposes when a user hasn't supplied their own list.
// Deliberately small: a real deployment should supply a complete list
// generated from its own resource pack.
func defaultSolidBlocks() []string {
	return []string{
		"minecraft:stone", "minecraft:dirt", "minecraft:grass_block",
		"minecraft:cobblestone", "minecraft:oak_planks", "minecraft:bedrock",
		"minecraft:sand", "minecraft:gravel", "minecraft:sandstone",
	}
}
