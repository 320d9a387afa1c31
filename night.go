package main

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
)

// Day/night overlay. The server replicates a normalized cycle progress plus a
// full-moon flag; the client interpolates an overlay color from keyframe
// tables and punches light holes into an offscreen mask for every active
// light source.

type nightKeyframe struct {
	Progress float64
	R, G, B  uint8
	Alpha    float64
}

// Progress 0 is midnight. Tables must start at 0 and end at 1 so lookup
// always finds a bracketing pair.
var standardNightKeyframes = []nightKeyframe{
	{0.00, 6, 8, 38, 0.65},
	{0.13, 10, 12, 44, 0.52},
	{0.22, 70, 48, 62, 0.30},
	{0.30, 0, 0, 0, 0.00},
	{0.70, 0, 0, 0, 0.00},
	{0.78, 82, 52, 46, 0.28},
	{0.87, 12, 12, 46, 0.50},
	{1.00, 6, 8, 38, 0.65},
}

// A full moon night stays brighter and shifts blue.
var fullMoonKeyframes = []nightKeyframe{
	{0.00, 40, 48, 86, 0.38},
	{0.13, 46, 54, 92, 0.32},
	{0.22, 80, 70, 90, 0.20},
	{0.30, 0, 0, 0, 0.00},
	{0.70, 0, 0, 0, 0.00},
	{0.78, 86, 64, 70, 0.20},
	{0.87, 48, 56, 94, 0.32},
	{1.00, 40, 48, 86, 0.38},
}

// nightGraceWindow is the early slice of a cycle during which a regime change
// blends from the old table's last keyframe to the new table's first.
const nightGraceWindow = 0.15

type overlayColor struct {
	R, G, B uint8
	Alpha   float64
}

func (c overlayColor) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", c.R, c.G, c.B, c.Alpha)
}

type nightEngine struct {
	prevRegimeFullMoon bool
	initialized        bool

	// mask resources, rebuilt when the viewport size changes
	mask       *ebiten.Image
	maskW      int
	maskH      int
	holeImgs   map[int]*ebiten.Image
	glowImg    *ebiten.Image
	flickerRng *rand.Rand
}

func newNightEngine() *nightEngine {
	return &nightEngine{
		holeImgs:   make(map[int]*ebiten.Image),
		flickerRng: rand.New(rand.NewSource(0x11fe)),
	}
}

func activeKeyframes(fullMoon bool) []nightKeyframe {
	if fullMoon {
		return fullMoonKeyframes
	}
	return standardNightKeyframes
}

// lookupKeyframes interpolates one table at the given progress. Progress
// outside [0,1) clamps to the boundary keyframes.
func lookupKeyframes(table []nightKeyframe, progress float64) overlayColor {
	if progress <= table[0].Progress {
		k := table[0]
		return overlayColor{k.R, k.G, k.B, roundAlpha(k.Alpha)}
	}
	last := table[len(table)-1]
	if progress >= last.Progress {
		return overlayColor{last.R, last.G, last.B, roundAlpha(last.Alpha)}
	}
	for i := 1; i < len(table); i++ {
		if progress <= table[i].Progress {
			a, b := table[i-1], table[i]
			span := b.Progress - a.Progress
			t := 0.0
			if span > 0 {
				t = (progress - a.Progress) / span
			}
			return overlayColor{
				R:     uint8(math.Round(lerp(float64(a.R), float64(b.R), t))),
				G:     uint8(math.Round(lerp(float64(a.G), float64(b.G), t))),
				B:     uint8(math.Round(lerp(float64(a.B), float64(b.B), t))),
				Alpha: roundAlpha(lerp(a.Alpha, b.Alpha, t)),
			}
		}
	}
	return overlayColor{last.R, last.G, last.B, roundAlpha(last.Alpha)}
}

// interpolateOverlay produces the frame's overlay color. When the regime
// changed since the previous cycle and progress is still inside the grace
// window, the color blends linearly from the old regime's final keyframe to
// the new regime's first, parameterized by progress/graceWindow.
func (n *nightEngine) interpolateOverlay(progress float64, fullMoon bool) overlayColor {
	progress = clamp(progress, 0, 1)

	if !n.initialized {
		n.prevRegimeFullMoon = fullMoon
		n.initialized = true
	}

	if fullMoon != n.prevRegimeFullMoon && progress < nightGraceWindow {
		old := activeKeyframes(n.prevRegimeFullMoon)
		cur := activeKeyframes(fullMoon)
		a := old[len(old)-1]
		b := cur[0]
		t := progress / nightGraceWindow
		return overlayColor{
			R:     uint8(math.Round(lerp(float64(a.R), float64(b.R), t))),
			G:     uint8(math.Round(lerp(float64(a.G), float64(b.G), t))),
			B:     uint8(math.Round(lerp(float64(a.B), float64(b.B), t))),
			Alpha: roundAlpha(lerp(a.Alpha, b.Alpha, t)),
		}
	}
	if progress >= nightGraceWindow {
		n.prevRegimeFullMoon = fullMoon
	}
	return lookupKeyframes(activeKeyframes(fullMoon), progress)
}

// lightSource is a hole to punch into the mask, in screen coordinates.
// OffsetY realigns the hole with the sprite's visual flame rather than its
// logical anchor.
type lightSource struct {
	Screen  Vec2
	Radius  float64
	OffsetY float64
}

const (
	campfireLightRadius = 140.0
	torchLightRadius    = 95.0
	lightFlickerPx      = 6.0
	campfireFlameOffset = -14.0
	torchFlameOffset    = -26.0
)

// collectLightSources gathers every active light in screen space: burning
// campfires and any player with a lit torch.
func collectLightSources(snap *worldSnapshot, offset Vec2) []lightSource {
	var lights []lightSource
	for _, c := range snap.campfires {
		if !c.IsBurning {
			continue
		}
		lights = append(lights, lightSource{
			Screen:  worldToScreen(c.Pos, offset),
			Radius:  campfireLightRadius,
			OffsetY: campfireFlameOffset,
		})
	}
	for _, p := range snap.players {
		if p.IsDead || !p.IsTorchLit {
			continue
		}
		lights = append(lights, lightSource{
			Screen:  worldToScreen(p.Pos, offset),
			Radius:  torchLightRadius,
			OffsetY: torchFlameOffset,
		})
	}
	return lights
}

func (n *nightEngine) ensureMask(w, h int) {
	if n.mask == nil || n.maskW != w || n.maskH != h {
		n.mask = ebiten.NewImage(w, h)
		n.maskW, n.maskH = w, h
	}
}

// holeImage returns a cached radial-gradient disc (opaque center fading to
// transparent edge) with a power-of-two diameter, scaled at draw time.
func (n *nightEngine) holeImage(radius int) *ebiten.Image {
	size := 1
	for size < radius*2 {
		size <<= 1
	}
	if img, ok := n.holeImgs[size]; ok {
		return img
	}
	img := ebiten.NewImage(size, size)
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - c
			dy := float64(y) - c
			d := math.Sqrt(dx*dx+dy*dy) / c
			if d > 1 {
				continue
			}
			a := 1 - d
			img.Set(x, y, color.RGBA{A: uint8(a * 255)})
		}
	}
	n.holeImgs[size] = img
	return img
}

// drawMask fills the mask with the overlay color and cuts a hole per light
// using destination-out compositing. Flicker jitters each radius within
// ±lightFlickerPx and floors the result at zero.
func (n *nightEngine) drawMask(screen *ebiten.Image, col overlayColor, lights []lightSource) {
	if col.Alpha <= 0 {
		return
	}
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	n.ensureMask(w, h)
	n.mask.Fill(color.RGBA{
		R: col.R,
		G: col.G,
		B: col.B,
		A: uint8(math.Round(col.Alpha * 255)),
	})

	for _, l := range lights {
		r := l.Radius + (n.flickerRng.Float64()*2-1)*lightFlickerPx
		if r < 0 {
			r = 0
		}
		if r == 0 {
			continue
		}
		hole := n.holeImage(int(r))
		hw := float64(hole.Bounds().Dx())
		op := &ebiten.DrawImageOptions{}
		op.Blend = ebiten.BlendDestinationOut
		s := (r * 2) / hw
		op.GeoM.Scale(s, s)
		op.GeoM.Translate(l.Screen.X-r, l.Screen.Y-r+l.OffsetY)
		n.mask.DrawImage(hole, op)
	}

	screen.DrawImage(n.mask, nil)
}

// drawGlows additively blends a warm halo at each light. Runs after the mask
// so the glow reads on top of the darkness.
func (n *nightEngine) drawGlows(screen *ebiten.Image, lights []lightSource) {
	if len(lights) == 0 {
		return
	}
	if n.glowImg == nil {
		const size = 128
		img := ebiten.NewImage(size, size)
		c := float64(size) / 2
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				dx := float64(x) - c
				dy := float64(y) - c
				d := math.Sqrt(dx*dx+dy*dy) / c
				if d > 1 {
					continue
				}
				a := (1 - d) * 0.35
				img.Set(x, y, color.RGBA{
					R: uint8(255 * a),
					G: uint8(180 * a),
					B: uint8(90 * a),
					A: uint8(255 * a),
				})
			}
		}
		n.glowImg = img
	}
	for _, l := range lights {
		op := &ebiten.DrawImageOptions{}
		op.Blend = ebiten.BlendLighter
		s := (l.Radius * 2) / float64(n.glowImg.Bounds().Dx())
		op.GeoM.Scale(s, s)
		op.GeoM.Translate(l.Screen.X-l.Radius, l.Screen.Y-l.Radius+l.OffsetY)
		screen.DrawImage(n.glowImg, op)
	}
}
