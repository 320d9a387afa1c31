package main

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func gzipped(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(payload)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestApplySnapshotReplacesState(t *testing.T) {
	world.reset()
	defer world.reset()

	// stale state from a previous subscription
	world.upsertResource(StaticResource{ID: 99, Pos: Vec2{1, 1}})

	snapshot := `{"tables":{
		"player":[{"identity":"me","name":"Ash","x":10,"y":20}],
		"static_resource":[{"id":1,"kind":0,"x":100,"y":100}],
		"world_state":[{"cycleProgress":0.25,"isFullMoon":true,"cycleCount":3}]
	}}`
	if err := applySnapshot(gzipped(t, snapshot)); err != nil {
		t.Fatalf("apply snapshot: %v", err)
	}

	snap := world.capture()
	if len(snap.resources) != 1 || snap.resources[0].ID != 1 {
		t.Fatalf("stale resource survived the snapshot: %+v", snap.resources)
	}
	if len(snap.players) != 1 || snap.players[0].Name != "Ash" {
		t.Fatalf("players = %+v", snap.players)
	}
	if snap.state.CycleProgress != 0.25 || !snap.state.IsFullMoon {
		t.Fatalf("world state = %+v", snap.state)
	}
}

func TestApplySnapshotRejectsGarbage(t *testing.T) {
	if err := applySnapshot([]byte("not gzip")); err == nil {
		t.Fatalf("garbage snapshot accepted")
	}
	if err := applySnapshot(gzipped(t, "not json")); err == nil {
		t.Fatalf("non-JSON snapshot accepted")
	}
}

func TestIntentQueueDropsWhenFull(t *testing.T) {
	sink := newIntentSink(2)
	sink.Swing(1, 1)
	sink.Swing(2, 2)
	sink.Swing(3, 3) // queue depth 2: dropped, never blocks

	ins := drainIntents(sink)
	if len(ins) != 2 {
		t.Fatalf("queued intents = %d, want 2", len(ins))
	}
}

func TestReducerArgumentsArePrimitive(t *testing.T) {
	sink := newIntentSink(8)
	sink.MoveItemToSlot(42, slotRef{Kind: slotContainer, Index: 3, ContainerKind: ContainerBox, ContainerID: 9})
	ins := drainIntents(sink)
	if len(ins) != 1 {
		t.Fatalf("intents = %d", len(ins))
	}
	for i, arg := range ins[0].Args {
		switch arg.(type) {
		case uint64, uint32, uint8, int, float64, bool, string:
		default:
			t.Fatalf("arg %d has non-primitive type %T", i, arg)
		}
	}
}
