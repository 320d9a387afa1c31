package main

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hako/durafmt"
	dark "github.com/thiagokokada/dark-mode-go"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HUD: stat bars, interaction labels, hovered-player names, the transient
// error banner and the container panel. All of it is derived view state —
// rebuilt from the snapshot every frame, safe to discard on resync.

var (
	hudFace    text.Face = text.NewGoXFace(basicfont.Face7x13)
	titleCaser           = cases.Title(language.English)
)

// displayName renders an item definition name for labels.
func displayName(def ItemDefinition) string { return titleCaser.String(def.Name) }

// --- transient error banner ---

const bannerDurationMs = 5000

var (
	bannerMu      sync.Mutex
	bannerText    string
	bannerExpires time.Time
)

var bannerPalette = struct {
	bg, fg color.RGBA
}{
	bg: color.RGBA{200, 40, 40, 220},
	fg: color.RGBA{255, 255, 255, 255},
}

// initPalette softens the banner when the OS reports a dark theme.
func initPalette() {
	if isDark, err := dark.IsDarkMode(); err == nil && isDark {
		bannerPalette.bg = color.RGBA{140, 30, 30, 220}
	}
}

func showBanner(msg string) {
	bannerMu.Lock()
	bannerText = msg
	bannerExpires = time.Now().Add(bannerDurationMs * time.Millisecond)
	bannerMu.Unlock()
}

func dismissBanner() {
	bannerMu.Lock()
	bannerText = ""
	bannerMu.Unlock()
}

func currentBanner() string {
	bannerMu.Lock()
	defer bannerMu.Unlock()
	if bannerText != "" && time.Now().After(bannerExpires) {
		bannerText = ""
	}
	return bannerText
}

// --- hovered player labels ---

const hoverDecayMs = 1000

// hoverSet keeps entries alive for hoverDecayMs past the last positive
// signal, so a name label does not flicker while the cursor skims a sprite
// edge.
type hoverSet struct {
	expiry map[string]float64
}

func newHoverSet() *hoverSet {
	return &hoverSet{expiry: make(map[string]float64)}
}

func (h *hoverSet) Mark(id string, nowMs float64) {
	h.expiry[id] = nowMs + hoverDecayMs
}

func (h *hoverSet) Active(nowMs float64) []string {
	var out []string
	for id, exp := range h.expiry {
		if nowMs >= exp {
			delete(h.expiry, id)
			continue
		}
		out = append(out, id)
	}
	return out
}

// Reset drops all entries, e.g. on an identity change after a reconnect.
func (h *hoverSet) Reset() {
	h.expiry = make(map[string]float64)
}

// --- container panel ---

// containerPanel is the open box/campfire/stash/corpse UI. It is bound to an
// interaction target and must close itself the instant that target goes
// stale; it never displays an entity the finder no longer vouches for.
type containerPanel struct {
	Open bool
	Kind ContainerKind
	ID   uint64
}

func (p *containerPanel) OpenFor(kind ContainerKind, id uint64) {
	p.Open = true
	p.Kind = kind
	p.ID = id
}

func (p *containerPanel) Close() {
	p.Open = false
	p.ID = 0
}

// Update enforces the stale-target contract: the previously non-nil target
// becoming nil (or switching entities) closes the panel without user action.
func (p *containerPanel) Update(targets interactionTargets) {
	if !p.Open {
		return
	}
	t := targets.targetForKind(p.Kind)
	if !t.OK || t.ID != p.ID {
		p.Close()
	}
}

// --- drawing helpers ---

func drawHUDBars(screen *ebiten.Image, local *PlayerState) {
	if local == nil {
		return
	}
	type bar struct {
		label string
		value float64
		col   color.RGBA
	}
	bars := []bar{
		{"HP", local.Health, color.RGBA{200, 60, 50, 255}},
		{"SP", local.Stamina, color.RGBA{70, 160, 70, 255}},
		{"Food", local.Hunger, color.RGBA{190, 140, 50, 255}},
		{"Water", local.Thirst, color.RGBA{60, 120, 200, 255}},
		{"Warmth", local.Warmth, color.RGBA{220, 110, 60, 255}},
	}
	const barW, barH, pad = 140, 10, 4
	x := float32(12)
	y := float32(12)
	for _, b := range bars {
		vector.DrawFilledRect(screen, x, y, barW, barH, color.RGBA{0, 0, 0, 150}, false)
		fill := float32(clamp(b.value, 0, 100) / 100 * barW)
		vector.DrawFilledRect(screen, x, y, fill, barH, b.col, false)
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(x)+barW+pad, float64(y)-2)
		text.Draw(screen, b.label, hudFace, op)
		y += barH + pad
	}
}

func drawBanner(screen *ebiten.Image) {
	msg := currentBanner()
	if msg == "" {
		return
	}
	w := screen.Bounds().Dx()
	vector.DrawFilledRect(screen, 0, 0, float32(w), 22, bannerPalette.bg, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 4)
	op.ColorScale.ScaleWithColor(bannerPalette.fg)
	text.Draw(screen, msg, hudFace, op)
}

func drawLabel(screen *ebiten.Image, msg string, x, y float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	text.Draw(screen, msg, hudFace, op)
}

// respawnLabel formats the remaining respawn delay of a depleted resource.
func respawnLabel(remainMs int64) string {
	if remainMs <= 0 {
		return ""
	}
	d := time.Duration(remainMs) * time.Millisecond
	return fmt.Sprintf("back in %s", durafmt.Parse(d.Round(time.Second)).LimitFirstN(2))
}
