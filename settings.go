package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

type Settings struct {
	WindowW       int     `json:"windowW"`
	WindowH       int     `json:"windowH"`
	Vsync         bool    `json:"vsync"`
	Linear        bool    `json:"linear"`
	ShowMinimap   bool    `json:"showMinimap"`
	Volume        float64 `json:"volume"`
	Muted         bool    `json:"muted"`
	DiscordRPC    bool    `json:"discordRPC"`
	LastCharacter string  `json:"lastCharacter"`
}

var gs = Settings{
	WindowW:     1280,
	WindowH:     720,
	Vsync:       true,
	ShowMinimap: true,
	Volume:      0.8,
	DiscordRPC:  true,
}

func loadSettings() bool {
	path := filepath.Join(baseDir, "settings.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return false
	}
	if s.WindowW < 640 {
		s.WindowW = 1280
	}
	if s.WindowH < 480 {
		s.WindowH = 720
	}
	if s.Volume <= 0 || s.Volume > 1 {
		s.Volume = 0.8
	}
	gs = s
	return true
}

func applySettings() {
	if gs.Linear {
		drawFilter = ebiten.FilterLinear
	} else {
		drawFilter = ebiten.FilterNearest
	}
	ebiten.SetVsyncEnabled(gs.Vsync)
	ebiten.SetWindowSize(gs.WindowW, gs.WindowH)
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		log.Printf("save settings: %v", err)
		return
	}
	path := filepath.Join(baseDir, "settings.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("save settings: %v", err)
	}
}

var drawFilter = ebiten.FilterNearest
