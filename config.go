package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GameConfig holds world geometry and gameplay tuning shipped with the
// client. The server is authoritative for all of it; these values only shape
// rendering and client-side validation, and a mismatch is corrected by the
// next snapshot.
type GameConfig struct {
	WorldWidth  float64 `yaml:"worldWidth"`
	WorldHeight float64 `yaml:"worldHeight"`
	TileSize    float64 `yaml:"tileSize"`
	SpriteW     float64 `yaml:"spriteW"`
	SpriteH     float64 `yaml:"spriteH"`

	InteractionRange    float64 `yaml:"interactionRange"`
	PlacementTolerance  float64 `yaml:"placementTolerance"`
	HoldDurationMs      float64 `yaml:"holdDurationMs"`
	SwingDurationMs     float64 `yaml:"swingDurationMs"`
	SwingCooldownMs     float64 `yaml:"swingCooldownMs"`
	CampfireDamageRange float64 `yaml:"campfireDamageRange"`

	MoveSpeed   float64 `yaml:"moveSpeed"`
	SprintMult  float64 `yaml:"sprintMult"`
	MinimapSize int     `yaml:"minimapSize"`
}

func defaultConfig() GameConfig {
	return GameConfig{
		WorldWidth:  4800,
		WorldHeight: 4800,
		TileSize:    48,
		SpriteW:     48,
		SpriteH:     64,

		InteractionRange:    64,
		PlacementTolerance:  1.25,
		HoldDurationMs:      1000,
		SwingDurationMs:     300,
		SwingCooldownMs:     500,
		CampfireDamageRange: 24,

		MoveSpeed:   2.4,
		SprintMult:  1.6,
		MinimapSize: 220,
	}
}

var cfg = defaultConfig()

// loadConfig replaces cfg from config.yaml when present. Missing file keeps
// the compiled-in defaults; a malformed file is an error so a typo does not
// silently revert tuning.
func loadConfig() error {
	path := filepath.Join(baseDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	c := defaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return err
	}
	cfg = c
	return nil
}
