package main

import "math"

// Minimap. Independent camera over the whole world: its own zoom and pan
// state, its own coordinate transforms, and its own click surface (pin,
// respawn). Coordinates in this file are minimap-local pixels unless named
// otherwise.

const (
	minimapZoomMin = 1.0
	minimapZoomMax = 8.0
	// minimapEdgeOverlapPx is the minimum on-minimap overlap the visible
	// world rectangle must keep with actual world bounds when panning.
	minimapEdgeOverlapPx = 48.0
)

type minimapView struct {
	zoom float64
	pan  Vec2 // world-unit offset from the local player

	dragging       bool
	lastX, lastY   int
	pin            *Vec2
	respawnClicked func(bagID uint64)
}

func newMinimapView() *minimapView {
	return &minimapView{zoom: 1}
}

// baseScale fits the full world into the minimap box preserving aspect ratio.
func (m *minimapView) baseScale() float64 {
	box := float64(cfg.MinimapSize)
	sx := box / cfg.WorldWidth
	sy := box / cfg.WorldHeight
	if sx < sy {
		return sx
	}
	return sy
}

func (m *minimapView) scale() float64 { return m.baseScale() * m.zoom }

// viewCenter is the world point mapped to the middle of the minimap box: the
// world center when zoomed out or with no player, otherwise the player plus
// the accumulated pan.
func (m *minimapView) viewCenter(local *PlayerState) Vec2 {
	if m.zoom <= 1 || local == nil {
		return Vec2{cfg.WorldWidth / 2, cfg.WorldHeight / 2}
	}
	return local.Pos.Add(m.pan)
}

func (m *minimapView) worldToMini(p Vec2, local *PlayerState) Vec2 {
	c := m.viewCenter(local)
	s := m.scale()
	half := float64(cfg.MinimapSize) / 2
	return Vec2{
		X: (p.X-c.X)*s + half,
		Y: (p.Y-c.Y)*s + half,
	}
}

func (m *minimapView) miniToWorld(q Vec2, local *PlayerState) Vec2 {
	c := m.viewCenter(local)
	s := m.scale()
	half := float64(cfg.MinimapSize) / 2
	return Vec2{
		X: (q.X-half)/s + c.X,
		Y: (q.Y-half)/s + c.Y,
	}
}

// clampPan keeps at least minimapEdgeOverlapPx of world visible on every
// axis, so the view can never be panned entirely off-map.
func (m *minimapView) clampPan(local *PlayerState) {
	if local == nil || m.zoom <= 1 {
		return
	}
	s := m.scale()
	half := float64(cfg.MinimapSize) / 2
	overlap := minimapEdgeOverlapPx / s
	halfW := half / s

	minC := overlap - halfW
	maxCX := cfg.WorldWidth - overlap + halfW
	maxCY := cfg.WorldHeight - overlap + halfW

	c := local.Pos.Add(m.pan)
	c.X = clamp(c.X, minC, maxCX)
	c.Y = clamp(c.Y, minC, maxCY)
	m.pan = c.Sub(local.Pos)
}

// HandleWheel zooms about the cursor: the world point under the cursor before
// the zoom stays under it afterwards, solved by re-deriving the pan.
func (m *minimapView) HandleWheel(cursor Vec2, wheelY float64, local *PlayerState) {
	if wheelY == 0 {
		return
	}
	before := m.miniToWorld(cursor, local)
	m.zoom = clamp(m.zoom*(1+wheelY*0.15), minimapZoomMin, minimapZoomMax)
	if m.zoom <= 1 || local == nil {
		m.pan = Vec2{}
		return
	}
	s := m.scale()
	half := float64(cfg.MinimapSize) / 2
	center := Vec2{
		X: before.X - (cursor.X-half)/s,
		Y: before.Y - (cursor.Y-half)/s,
	}
	m.pan = center.Sub(local.Pos)
	m.clampPan(local)
}

// HandleDrag pans with a held left button; only meaningful when zoomed in.
func (m *minimapView) HandleDrag(x, y int, leftDown bool, local *PlayerState) {
	if !leftDown {
		m.dragging = false
		return
	}
	if !m.dragging {
		m.dragging = true
		m.lastX, m.lastY = x, y
		return
	}
	if m.zoom > 1 {
		s := m.scale()
		m.pan.X -= float64(x-m.lastX) / s
		m.pan.Y -= float64(y-m.lastY) / s
		m.clampPan(local)
	}
	m.lastX, m.lastY = x, y
}

// Reset restores the default zoom and pan (middle click).
func (m *minimapView) Reset() {
	m.zoom = 1
	m.pan = Vec2{}
	m.dragging = false
}

// HandlePin converts a right click into a world pin: inverse view transform,
// clamped to world bounds, rounded, then one outbound call.
func (m *minimapView) HandlePin(cursor Vec2, local *PlayerState, sink *intentSink) {
	w := m.miniToWorld(cursor, local)
	x := int(math.Round(clamp(w.X, 0, cfg.WorldWidth)))
	y := int(math.Round(clamp(w.Y, 0, cfg.WorldHeight)))
	m.pin = &Vec2{float64(x), float64(y)}
	sink.SetPin(x, y)
}

// HandleRespawnClick lets a dead player click one of their sleeping-bag
// markers to respawn there. Returns true when a bag was hit.
func (m *minimapView) HandleRespawnClick(cursor Vec2, snap *worldSnapshot, sink *intentSink) bool {
	if snap.local == nil || !snap.local.IsDead {
		return false
	}
	const hitRadiusPx = 6.0
	for _, b := range snap.bags {
		if b.IsDestroyed || b.PlacedBy != snap.localIdentity {
			continue
		}
		q := m.worldToMini(b.Pos, snap.local)
		if dist2(q, cursor) <= hitRadiusPx*hitRadiusPx {
			sink.Respawn(b.ID)
			return true
		}
	}
	return false
}
