package main

import "testing"

func TestZoomAtCursorPreservesWorldPoint(t *testing.T) {
	m := newMinimapView()
	local := &PlayerState{Identity: "me", Pos: Vec2{cfg.WorldWidth / 2, cfg.WorldHeight / 2}}
	cursor := Vec2{150, 130}

	before := m.miniToWorld(cursor, local)
	m.HandleWheel(cursor, 4, local)
	if m.zoom <= 1 {
		t.Fatalf("wheel up did not zoom in: %v", m.zoom)
	}
	after := m.miniToWorld(cursor, local)
	if absf(after.X-before.X) > 1e-6 || absf(after.Y-before.Y) > 1e-6 {
		t.Fatalf("world point under cursor moved: %v -> %v", before, after)
	}

	// zoom again while already zoomed, same invariant
	before = m.miniToWorld(cursor, local)
	m.HandleWheel(cursor, 2, local)
	after = m.miniToWorld(cursor, local)
	if absf(after.X-before.X) > 1e-6 || absf(after.Y-before.Y) > 1e-6 {
		t.Fatalf("world point moved on second zoom: %v -> %v", before, after)
	}
}

func TestZoomClampedToRange(t *testing.T) {
	m := newMinimapView()
	local := &PlayerState{Pos: Vec2{2400, 2400}}
	for i := 0; i < 50; i++ {
		m.HandleWheel(Vec2{110, 110}, 10, local)
	}
	if m.zoom != minimapZoomMax {
		t.Fatalf("zoom = %v, want clamp at %v", m.zoom, minimapZoomMax)
	}
	for i := 0; i < 50; i++ {
		m.HandleWheel(Vec2{110, 110}, -10, local)
	}
	if m.zoom != minimapZoomMin {
		t.Fatalf("zoom = %v, want clamp at %v", m.zoom, minimapZoomMin)
	}
}

func TestPanClampKeepsWorldVisible(t *testing.T) {
	m := newMinimapView()
	local := &PlayerState{Pos: Vec2{100, 100}}
	m.zoom = minimapZoomMax
	m.pan = Vec2{-1e9, 1e9}
	m.clampPan(local)

	s := m.scale()
	half := float64(cfg.MinimapSize) / 2
	overlap := minimapEdgeOverlapPx / s
	halfW := half / s

	c := local.Pos.Add(m.pan)
	if c.X < overlap-halfW-1e-9 || c.X > cfg.WorldWidth-overlap+halfW+1e-9 {
		t.Fatalf("clamped center X = %v escapes the overlap bounds", c.X)
	}
	if c.Y < overlap-halfW-1e-9 || c.Y > cfg.WorldHeight-overlap+halfW+1e-9 {
		t.Fatalf("clamped center Y = %v escapes the overlap bounds", c.Y)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	m := newMinimapView()
	local := &PlayerState{Pos: Vec2{2400, 2400}}
	m.HandleWheel(Vec2{50, 50}, 5, local)
	m.HandleDrag(10, 10, true, local)
	m.HandleDrag(40, 60, true, local)

	m.Reset()
	if m.zoom != 1 || m.pan != (Vec2{}) || m.dragging {
		t.Fatalf("reset left zoom=%v pan=%v dragging=%v", m.zoom, m.pan, m.dragging)
	}
}

func TestPinClampedAndRounded(t *testing.T) {
	m := newMinimapView()
	sink := newIntentSink(8)
	local := &PlayerState{Pos: Vec2{2400, 2400}}

	// a cursor off the top-left of the box maps outside the world
	m.HandlePin(Vec2{-500, -500}, local, sink)

	ins := drainIntents(sink)
	if len(ins) != 1 || ins[0].Reducer != "set_map_pin" {
		t.Fatalf("intents = %v, want one set_map_pin", reducersOf(ins))
	}
	x := ins[0].Args[0].(int)
	y := ins[0].Args[1].(int)
	if x < 0 || y < 0 || float64(x) > cfg.WorldWidth || float64(y) > cfg.WorldHeight {
		t.Fatalf("pin (%d,%d) escapes world bounds", x, y)
	}
	if m.pin == nil {
		t.Fatalf("local pin marker not set")
	}
}

func TestRespawnClickRequiresDeadPlayer(t *testing.T) {
	m := newMinimapView()
	sink := newIntentSink(8)

	alive := PlayerState{Identity: "me", Pos: Vec2{2400, 2400}}
	bag := SleepingBag{ID: 11, Pos: Vec2{2400, 2400}, PlacedBy: "me"}
	snap := worldSnapshot{local: &alive, localIdentity: "me", bags: []SleepingBag{bag}}

	cursor := m.worldToMini(bag.Pos, snap.local)
	if m.HandleRespawnClick(cursor, &snap, sink) {
		t.Fatalf("respawn click accepted while alive")
	}

	dead := alive
	dead.IsDead = true
	snap.local = &dead
	if !m.HandleRespawnClick(cursor, &snap, sink) {
		t.Fatalf("respawn click on own bag rejected")
	}
	ins := drainIntents(sink)
	if len(ins) != 1 || ins[0].Reducer != "respawn_at_bag" || ins[0].Args[0].(uint64) != 11 {
		t.Fatalf("intents = %+v, want respawn_at_bag(11)", ins)
	}
}

func TestRespawnClickIgnoresOtherBags(t *testing.T) {
	m := newMinimapView()
	sink := newIntentSink(8)
	dead := PlayerState{Identity: "me", Pos: Vec2{2400, 2400}, IsDead: true}
	snap := worldSnapshot{
		local:         &dead,
		localIdentity: "me",
		bags: []SleepingBag{
			{ID: 1, Pos: Vec2{2400, 2400}, PlacedBy: "other"},
			{ID: 2, Pos: Vec2{2400, 2400}, PlacedBy: "me", IsDestroyed: true},
		},
	}
	cursor := m.worldToMini(Vec2{2400, 2400}, snap.local)
	if m.HandleRespawnClick(cursor, &snap, sink) {
		t.Fatalf("respawn accepted on a foreign or destroyed bag")
	}
}
