package main

import "testing"

func TestMidnightOverlayStandard(t *testing.T) {
	e := newNightEngine()
	c := e.interpolateOverlay(0, false)
	want := overlayColor{6, 8, 38, 0.65}
	if c != want {
		t.Fatalf("midnight overlay = %v, want %v", c, want)
	}
}

func TestMidnightOverlayFullMoon(t *testing.T) {
	e := newNightEngine()
	c := e.interpolateOverlay(0, true)
	want := overlayColor{40, 48, 86, 0.38}
	if c != want {
		t.Fatalf("full moon midnight overlay = %v, want %v", c, want)
	}
}

func TestDaytimeOverlayClear(t *testing.T) {
	e := newNightEngine()
	for _, progress := range []float64{0.30, 0.45, 0.60, 0.70} {
		c := e.interpolateOverlay(progress, false)
		if c.Alpha != 0 {
			t.Fatalf("daytime overlay at %.2f has alpha %.2f, want 0", progress, c.Alpha)
		}
	}
}

func TestKeyframeMidpointInterpolation(t *testing.T) {
	// halfway between {0.22, 70,48,62, 0.30} and {0.30, 0,0,0, 0}
	c := lookupKeyframes(standardNightKeyframes, 0.26)
	want := overlayColor{35, 24, 31, 0.15}
	if c != want {
		t.Fatalf("interpolated overlay = %v, want %v", c, want)
	}
}

func TestKeyframeLookupClampsBounds(t *testing.T) {
	lo := lookupKeyframes(standardNightKeyframes, -0.5)
	hi := lookupKeyframes(standardNightKeyframes, 1.5)
	if lo != lookupKeyframes(standardNightKeyframes, 0) {
		t.Fatalf("below-range lookup = %v", lo)
	}
	if hi != lookupKeyframes(standardNightKeyframes, 1) {
		t.Fatalf("above-range lookup = %v", hi)
	}
}

func TestRegimeChangeGraceBlend(t *testing.T) {
	e := newNightEngine()
	// establish the standard regime past the grace window
	e.interpolateOverlay(0.5, false)

	// halfway through the grace window after switching to full moon: blend of
	// the standard table's last keyframe and the full moon table's first
	c := e.interpolateOverlay(0.075, true)
	want := overlayColor{23, 28, 62, 0.52}
	if c != want {
		t.Fatalf("grace blend = %v, want %v", c, want)
	}

	// past the window the new regime takes over outright
	if c := e.interpolateOverlay(0.5, true); c.Alpha != 0 {
		t.Fatalf("post-grace overlay = %v, want clear", c)
	}
	got := e.interpolateOverlay(0.05, true)
	if got != lookupKeyframes(fullMoonKeyframes, 0.05) {
		t.Fatalf("settled regime overlay = %v, want plain lookup", got)
	}
}

func TestNoBlendWithoutRegimeChange(t *testing.T) {
	e := newNightEngine()
	e.interpolateOverlay(0.5, false)
	c := e.interpolateOverlay(0.05, false)
	if c != lookupKeyframes(standardNightKeyframes, 0.05) {
		t.Fatalf("same-regime overlay = %v, want plain lookup", c)
	}
}

func TestCollectLightSourcesSkipsInactive(t *testing.T) {
	snap := worldSnapshot{
		campfires: []Campfire{
			{ID: 1, Pos: Vec2{100, 100}, IsBurning: false},
			{ID: 2, Pos: Vec2{200, 100}, IsBurning: true},
		},
		players: []PlayerState{
			{Identity: "a", Pos: Vec2{50, 50}, IsTorchLit: false},
			{Identity: "b", Pos: Vec2{60, 50}, IsTorchLit: true},
			{Identity: "c", Pos: Vec2{70, 50}, IsTorchLit: true, IsDead: true},
		},
	}
	lights := collectLightSources(&snap, Vec2{})
	if len(lights) != 2 {
		t.Fatalf("got %d lights, want 2 (burning fire + lit torch)", len(lights))
	}
	if lights[0].Radius != campfireLightRadius {
		t.Fatalf("campfire radius = %v", lights[0].Radius)
	}
	if lights[1].Radius != torchLightRadius {
		t.Fatalf("torch radius = %v", lights[1].Radius)
	}
}

func TestPeakNightNoLights(t *testing.T) {
	e := newNightEngine()
	c := e.interpolateOverlay(0, false)
	if c.Alpha != 0.65 {
		t.Fatalf("peak alpha = %.2f, want 0.65", c.Alpha)
	}
	snap := worldSnapshot{
		campfires: []Campfire{{ID: 1, Pos: Vec2{100, 100}, IsBurning: false}},
		players:   []PlayerState{{Identity: "a", Pos: Vec2{50, 50}}},
	}
	if lights := collectLightSources(&snap, Vec2{}); len(lights) != 0 {
		t.Fatalf("got %d lights, want none", len(lights))
	}
}
