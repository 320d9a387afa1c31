package main

import "math"

// Vec2 is a position or velocity in world units.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// dist2 returns the squared distance between two points. Range checks compare
// against squared thresholds so no sqrt is needed.
func dist2(a, b Vec2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// roundAlpha rounds an overlay alpha to two decimal places so interpolated
// values stay stable across frames with near-identical progress.
func roundAlpha(a float64) float64 { return math.Round(a*100) / 100 }

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
