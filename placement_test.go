package main

import (
	"strings"
	"sync"
	"testing"
)

func campfireDef() ItemDefinition {
	return ItemDefinition{ID: 1, Name: "Camp Fire", Icon: "campfire", Category: CategoryPlaceable}
}

func TestPlacementValidityTolerance(t *testing.T) {
	pm := newPlacementManager(newIntentSink(8))
	pm.Begin(campfireDef(), 100)

	limit := cfg.InteractionRange * cfg.PlacementTolerance
	player := Vec2{0, 0}

	pm.UpdateValidity(Vec2{limit - 1, 0}, player)
	if pm.TooFar() {
		t.Fatalf("cursor inside the tolerated range flagged too far")
	}
	pm.UpdateValidity(Vec2{limit + 1, 0}, player)
	if !pm.TooFar() {
		t.Fatalf("cursor past the tolerated range not flagged")
	}
}

func TestConfirmDispatchesExactlyOnce(t *testing.T) {
	sink := newIntentSink(8)
	pm := newPlacementManager(sink)
	pm.Begin(campfireDef(), 100)
	pm.UpdateValidity(Vec2{10, 0}, Vec2{0, 0})

	if err := pm.Confirm(Vec2{10, 0}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	ins := drainIntents(sink)
	if len(ins) != 1 || ins[0].Reducer != "place_campfire" {
		t.Fatalf("intents = %v, want one place_campfire", reducersOf(ins))
	}
	if id := ins[0].Args[0].(uint64); id != 100 {
		t.Fatalf("placed instance = %d, want 100", id)
	}
}

func TestConfirmRejectsTooFar(t *testing.T) {
	sink := newIntentSink(8)
	pm := newPlacementManager(sink)
	pm.Begin(campfireDef(), 100)
	pm.UpdateValidity(Vec2{10_000, 0}, Vec2{0, 0})

	if err := pm.Confirm(Vec2{10_000, 0}); err == nil {
		t.Fatalf("too-far confirm succeeded")
	}
	if ins := drainIntents(sink); len(ins) != 0 {
		t.Fatalf("too-far confirm emitted %v", reducersOf(ins))
	}
}

func TestConfirmWithoutActivePlacement(t *testing.T) {
	pm := newPlacementManager(newIntentSink(8))
	if err := pm.Confirm(Vec2{}); err == nil {
		t.Fatalf("confirm with no placement succeeded")
	}
}

func TestUnknownNameSuggestsNearest(t *testing.T) {
	pm := newPlacementManager(newIntentSink(8))
	def := campfireDef()
	def.Name = "Camp Fyre"
	pm.Begin(def, 100)
	pm.UpdateValidity(Vec2{1, 0}, Vec2{0, 0})

	err := pm.Confirm(Vec2{1, 0})
	if err == nil {
		t.Fatalf("unknown placeable name confirmed")
	}
	if !strings.Contains(err.Error(), "Camp Fire") {
		t.Fatalf("error %q does not suggest the nearest known name", err)
	}
}

// NotifyPlaced arrives on the replication goroutine while the game loop keeps
// driving the manager. A dispatched intent must never carry a zeroed instance
// id, whatever the interleaving. Run with -race.
func TestNotifyPlacedConcurrentWithConfirm(t *testing.T) {
	sink := newIntentSink(8192)
	pm := newPlacementManager(sink)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				pm.NotifyPlaced("Camp Fire")
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		pm.Begin(campfireDef(), uint64(i+1))
		pm.UpdateValidity(Vec2{10, 0}, Vec2{0, 0})
		_ = pm.Confirm(Vec2{10, 0}) // an arrival between Begin and Confirm is a legal miss
		pm.Active()
		pm.Payload()
	}
	close(done)
	wg.Wait()

	for _, in := range drainIntents(sink) {
		if in.Reducer == "place_campfire" && in.Args[0].(uint64) == 0 {
			t.Fatalf("dispatched a placement with a zeroed instance id")
		}
	}
}

func TestNotifyPlacedEndsMode(t *testing.T) {
	pm := newPlacementManager(newIntentSink(8))
	pm.Begin(campfireDef(), 100)

	pm.NotifyPlaced("Stash") // someone else's entity
	if !pm.Active() {
		t.Fatalf("unrelated placement ended the mode")
	}
	pm.NotifyPlaced("Camp Fire")
	if pm.Active() {
		t.Fatalf("awaited entity arrival did not end the mode")
	}
}
