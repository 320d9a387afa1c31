package main

import "sort"

// cameraOffset maps the local player's world position to the screen-space
// translation that centers them. With no local player the world draws
// untranslated.
func cameraOffset(canvasW, canvasH int, local *PlayerState) Vec2 {
	if local == nil {
		return Vec2{}
	}
	return Vec2{
		X: float64(canvasW)/2 - local.Pos.X,
		Y: float64(canvasH)/2 - local.Pos.Y,
	}
}

// worldRect is an inclusive rectangle in world coordinates.
type worldRect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// cullMargin keeps sprites partially past the screen edge from popping.
const cullMargin = 96

// viewportRect computes the world-space rectangle currently visible given the
// camera offset, padded by cullMargin.
func viewportRect(offset Vec2, canvasW, canvasH int) worldRect {
	return worldRect{
		MinX: -offset.X - cullMargin,
		MinY: -offset.Y - cullMargin,
		MaxX: -offset.X + float64(canvasW) + cullMargin,
		MaxY: -offset.Y + float64(canvasH) + cullMargin,
	}
}

func (r worldRect) contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// drawable is one Y-sorted draw call. SortY is the world Y used for painter's
// ordering; larger Y draws later and therefore in front.
type drawable struct {
	SortY float64
	Draw  func()
}

// sortDrawables orders entities bottom-up for the painter's algorithm. The
// sort is stable so entities sharing a Y keep their insertion order.
func sortDrawables(ds []drawable) {
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].SortY < ds[j].SortY })
}

// tileRange returns the inclusive tile index range intersecting the viewport,
// clamped to world bounds. Only these background tiles are drawn.
func tileRange(r worldRect) (x0, y0, x1, y1 int) {
	maxTX := int(cfg.WorldWidth/cfg.TileSize) - 1
	maxTY := int(cfg.WorldHeight/cfg.TileSize) - 1
	x0 = clampInt(int(r.MinX/cfg.TileSize), 0, maxTX)
	y0 = clampInt(int(r.MinY/cfg.TileSize), 0, maxTY)
	x1 = clampInt(int(r.MaxX/cfg.TileSize), 0, maxTX)
	y1 = clampInt(int(r.MaxY/cfg.TileSize), 0, maxTY)
	return
}

// screenToWorld converts a cursor position to world coordinates under the
// current camera offset.
func screenToWorld(x, y int, offset Vec2) Vec2 {
	return Vec2{X: float64(x) - offset.X, Y: float64(y) - offset.Y}
}

func worldToScreen(p Vec2, offset Vec2) Vec2 {
	return Vec2{X: p.X + offset.X, Y: p.Y + offset.Y}
}
