package main

import "testing"

func fireSource(active, burst bool) []emissionSource {
	return []emissionSource{{
		Key:    campfireEmitterKey(1),
		Pos:    Vec2{100, 100},
		Kind:   particleFire,
		Active: active,
		Burst:  burst,
	}}
}

// The accumulator must spawn the same total regardless of frame size.
func TestEmissionRateIndependentOfFrameRate(t *testing.T) {
	full := newParticleSystem()
	now := 0.0
	for i := 0; i < 20; i++ {
		now += referenceFrameMs
		full.Update(now, referenceFrameMs, fireSource(true, false))
	}

	half := newParticleSystem()
	now = 0.0
	for i := 0; i < 40; i++ {
		now += referenceFrameMs / 2
		half.Update(now, referenceFrameMs/2, fireSource(true, false))
	}

	fullFire, _, _, _ := full.counts()
	halfFire, _, _, _ := half.counts()
	if fullFire != halfFire {
		t.Fatalf("fire counts diverge across frame rates: %d vs %d", fullFire, halfFire)
	}
	// 0.28/frame over 20 reference frames floors to 5
	if fullFire != 5 {
		t.Fatalf("fire count = %d, want 5", fullFire)
	}
}

func TestSmokeLingersAfterExtinguish(t *testing.T) {
	ps := newParticleSystem()
	now := 0.0
	step := func(frames int, active bool) {
		for i := 0; i < frames; i++ {
			now += referenceFrameMs
			ps.Update(now, referenceFrameMs, fireSource(active, false))
		}
	}

	step(30, true)
	step(10, false) // just extinguished, inside the linger window
	_, smoke, _, _ := ps.counts()
	if smoke == 0 {
		t.Fatalf("no smoke during linger window")
	}

	// advance past the linger window plus the longest smoke lifetime
	step(int((smokeLingerMs+4100)/referenceFrameMs), false)
	_, smoke, _, _ = ps.counts()
	if smoke != 0 {
		t.Fatalf("%d smoke particles survive past linger + lifetime", smoke)
	}
}

func TestFireStopsInstantlyOnExtinguish(t *testing.T) {
	ps := newParticleSystem()
	now := 0.0
	for i := 0; i < 30; i++ {
		now += referenceFrameMs
		ps.Update(now, referenceFrameMs, fireSource(true, false))
	}
	// longest fire particle lives 700ms; run inactive past that
	for i := 0; i < 45; i++ {
		now += referenceFrameMs
		ps.Update(now, referenceFrameMs, fireSource(false, false))
	}
	fire, _, _, _ := ps.counts()
	if fire != 0 {
		t.Fatalf("%d fire particles after extinguish", fire)
	}
}

func TestEmitterStateDroppedWithSource(t *testing.T) {
	ps := newParticleSystem()
	ps.Update(referenceFrameMs, referenceFrameMs, fireSource(true, false))
	if len(ps.emitters) != 1 {
		t.Fatalf("emitters = %d, want 1", len(ps.emitters))
	}
	ps.Update(2*referenceFrameMs, referenceFrameMs, nil)
	if len(ps.emitters) != 0 {
		t.Fatalf("emitters = %d after source removal, want 0", len(ps.emitters))
	}
}

func TestBurstSpawnsWhilePlayerInRange(t *testing.T) {
	ps := newParticleSystem()
	now := 0.0
	for i := 0; i < 10; i++ {
		now += referenceFrameMs
		ps.Update(now, referenceFrameMs, fireSource(true, true))
	}
	_, _, _, burst := ps.counts()
	// 0.35/frame over 10 frames floors to 3
	if burst != 3 {
		t.Fatalf("burst count = %d, want 3", burst)
	}
}

func TestCollectEmissionSourcesBurstFlag(t *testing.T) {
	snap := worldSnapshot{
		campfires: []Campfire{{ID: 1, Pos: Vec2{100, 100}, IsBurning: true}},
		players: []PlayerState{
			{Identity: "far", Pos: Vec2{100, 100 + cfg.CampfireDamageRange + 1}},
		},
	}
	srcs := collectEmissionSources(&snap)
	if srcs[0].Burst {
		t.Fatalf("burst set with no player inside the damage radius")
	}

	snap.players = append(snap.players, PlayerState{Identity: "near", Pos: Vec2{100, 100 + cfg.CampfireDamageRange - 1}})
	srcs = collectEmissionSources(&snap)
	if !srcs[0].Burst {
		t.Fatalf("burst not set with a player inside the damage radius")
	}

	// a dead body inside the radius does not count
	snap.players = []PlayerState{{Identity: "dead", Pos: Vec2{100, 110}, IsDead: true}}
	srcs = collectEmissionSources(&snap)
	if srcs[0].Burst {
		t.Fatalf("burst set for a dead player")
	}
}

func TestTorchEmittersFollowPlayers(t *testing.T) {
	snap := worldSnapshot{
		players: []PlayerState{
			{Identity: "lit", Pos: Vec2{10, 10}, IsTorchLit: true},
			{Identity: "unlit", Pos: Vec2{20, 10}},
		},
	}
	srcs := collectEmissionSources(&snap)
	var active int
	for _, s := range srcs {
		if s.Kind == particleTorch && s.Active {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("active torch sources = %d, want 1", active)
	}
}
