package main

import "testing"

func TestCameraCentersLocalPlayer(t *testing.T) {
	local := &PlayerState{Identity: "me", Pos: Vec2{100, 100}}
	off := cameraOffset(800, 600, local)
	if off != (Vec2{300, 200}) {
		t.Fatalf("offset = %v, want {300 200}", off)
	}
	if s := worldToScreen(local.Pos, off); s != (Vec2{400, 300}) {
		t.Fatalf("player draws at %v, want screen center", s)
	}

	// the camera follows: same screen point after the player moves
	local.Pos = Vec2{150, 100}
	off = cameraOffset(800, 600, local)
	if off != (Vec2{250, 200}) {
		t.Fatalf("offset after move = %v, want {250 200}", off)
	}
	if s := worldToScreen(local.Pos, off); s != (Vec2{400, 300}) {
		t.Fatalf("player draws at %v after move, want screen center", s)
	}
}

func TestCameraWithoutLocalPlayer(t *testing.T) {
	if off := cameraOffset(800, 600, nil); off != (Vec2{}) {
		t.Fatalf("offset with no player = %v, want zero", off)
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	off := Vec2{123, -45}
	w := screenToWorld(400, 300, off)
	s := worldToScreen(w, off)
	if s != (Vec2{400, 300}) {
		t.Fatalf("round trip = %v", s)
	}
}

func TestViewportCulling(t *testing.T) {
	off := cameraOffset(800, 600, &PlayerState{Pos: Vec2{1000, 1000}})
	vp := viewportRect(off, 800, 600)

	if !vp.contains(Vec2{1000, 1000}) {
		t.Fatalf("viewport excludes the player")
	}
	// just past the screen edge but inside the cull margin
	if !vp.contains(Vec2{1000 + 400 + cullMargin - 1, 1000}) {
		t.Fatalf("viewport excludes a point inside the margin")
	}
	if vp.contains(Vec2{1000 + 400 + cullMargin + 1, 1000}) {
		t.Fatalf("viewport includes a point past the margin")
	}
}

func TestTileRangeClampedToWorld(t *testing.T) {
	// camera at the world origin: negative viewport coordinates clamp to tile 0
	vp := viewportRect(Vec2{0, 0}, 800, 600)
	x0, y0, _, _ := tileRange(vp)
	if x0 != 0 || y0 != 0 {
		t.Fatalf("range starts at (%d,%d), want (0,0)", x0, y0)
	}

	// camera at the far corner clamps to the last tile
	off := cameraOffset(800, 600, &PlayerState{Pos: Vec2{cfg.WorldWidth, cfg.WorldHeight}})
	_, _, x1, y1 := tileRange(viewportRect(off, 800, 600))
	maxT := int(cfg.WorldWidth/cfg.TileSize) - 1
	if x1 != maxT || y1 != int(cfg.WorldHeight/cfg.TileSize)-1 {
		t.Fatalf("range ends at (%d,%d), want (%d,..)", x1, y1, maxT)
	}
}

func TestYSortAscendingAndStable(t *testing.T) {
	var order []string
	mk := func(name string, y float64) drawable {
		return drawable{SortY: y, Draw: func() { order = append(order, name) }}
	}
	ds := []drawable{mk("c", 30), mk("a1", 10), mk("b", 20), mk("a2", 10)}
	sortDrawables(ds)
	for _, d := range ds {
		d.Draw()
	}
	want := []string{"a1", "a2", "b", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("draw order = %v, want %v", order, want)
		}
	}
}
