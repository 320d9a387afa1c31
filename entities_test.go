package main

import (
	"encoding/json"
	"testing"
)

func TestUpsertIdempotent(t *testing.T) {
	w := newWorldStore()
	r := StaticResource{ID: 1, Kind: ResourceTree, Pos: Vec2{10, 20}}
	w.upsertResource(r)
	w.upsertResource(r)

	snap := w.capture()
	if len(snap.resources) != 1 {
		t.Fatalf("resources = %d after duplicate upsert, want 1", len(snap.resources))
	}
	if snap.resources[0] != r {
		t.Fatalf("stored row = %+v, want %+v", snap.resources[0], r)
	}
}

func TestDeleteUnknownKeyIsNoop(t *testing.T) {
	w := newWorldStore()
	w.upsertCampfire(Campfire{ID: 1})
	w.deleteCampfire(99)
	if snap := w.capture(); len(snap.campfires) != 1 {
		t.Fatalf("campfires = %d, want 1", len(snap.campfires))
	}
}

func TestResetClearsEverything(t *testing.T) {
	w := newWorldStore()
	w.upsertPlayer(PlayerState{Identity: "a"})
	w.upsertResource(StaticResource{ID: 1})
	w.upsertItem(InventoryItem{InstanceID: 2})
	w.setWorldState(WorldState{CycleProgress: 0.5})
	gen := w.capture().generation

	w.reset()
	snap := w.capture()
	if len(snap.players)+len(snap.resources)+len(snap.items) != 0 {
		t.Fatalf("tables survive a reset")
	}
	if snap.state != (WorldState{}) {
		t.Fatalf("world state survives a reset: %+v", snap.state)
	}
	if snap.generation <= gen {
		t.Fatalf("generation did not advance across reset")
	}
}

func TestSnapshotResolvesLocalPlayer(t *testing.T) {
	w := newWorldStore()
	w.setLocalIdentity("me")
	w.upsertPlayer(PlayerState{Identity: "other"})
	w.upsertPlayer(PlayerState{Identity: "me", Pos: Vec2{5, 6}})

	snap := w.capture()
	if snap.local == nil || snap.local.Identity != "me" {
		t.Fatalf("local = %+v", snap.local)
	}
	// the snapshot local is a copy, not an alias into the store
	snap.local.Pos = Vec2{999, 999}
	if w.capture().local.Pos != (Vec2{5, 6}) {
		t.Fatalf("mutating the snapshot leaked into the store")
	}
}

func TestItemAtResolvesEveryLocation(t *testing.T) {
	inv := InventoryItem{InstanceID: 1, ItemDefID: 10, Quantity: 3,
		Location: ItemLocation{Kind: LocationInventory, OwnerIdentity: "me", Slot: 4}}
	hot := InventoryItem{InstanceID: 2, ItemDefID: 11, Quantity: 1,
		Location: ItemLocation{Kind: LocationHotbar, OwnerIdentity: "me", Slot: 0}}
	eq := InventoryItem{InstanceID: 3, ItemDefID: 12, Quantity: 1,
		Location: ItemLocation{Kind: LocationEquipped, OwnerIdentity: "me", EquipSlot: EquipChest}}
	boxed := InventoryItem{InstanceID: 4, ItemDefID: 13, Quantity: 8,
		Location: ItemLocation{Kind: LocationContainer, ContainerKind: ContainerBox, ContainerID: 7, Slot: 2}}
	foreign := InventoryItem{InstanceID: 5, ItemDefID: 14, Quantity: 1,
		Location: ItemLocation{Kind: LocationInventory, OwnerIdentity: "other", Slot: 4}}

	box := StorageBox{ID: 7}
	box.Slots[2] = boxed.InstanceID

	snap := worldSnapshot{
		localIdentity: "me",
		boxes:         []StorageBox{box},
		items: map[uint64]InventoryItem{
			1: inv, 2: hot, 3: eq, 4: boxed, 5: foreign,
		},
	}

	cases := []struct {
		ref  slotRef
		want uint64
	}{
		{slotRef{Kind: slotInventory, Index: 4}, 1},
		{slotRef{Kind: slotHotbar, Index: 0}, 2},
		{slotRef{Kind: slotEquip, Index: int(EquipChest)}, 3},
		{slotRef{Kind: slotContainer, Index: 2, ContainerKind: ContainerBox, ContainerID: 7}, 4},
	}
	for _, c := range cases {
		got, ok := snap.itemAt(c.ref)
		if !ok || got.InstanceID != c.want {
			t.Fatalf("itemAt(%+v) = %+v ok=%v, want instance %d", c.ref, got, ok, c.want)
		}
	}

	if _, ok := snap.itemAt(slotRef{Kind: slotInventory, Index: 9}); ok {
		t.Fatalf("empty slot resolved to an item")
	}
	if got, _ := snap.itemAt(slotRef{Kind: slotInventory, Index: 4}); got.InstanceID == 5 {
		t.Fatalf("another player's item resolved as local")
	}
}

func TestCopySlotsDefensive(t *testing.T) {
	var dst [6]uint64
	copySlots(dst[:], []uint64{1, 2, 3, 4, 5, 6, 7, 8})
	if dst != [6]uint64{1, 2, 3, 4, 5, 6} {
		t.Fatalf("overlong source: %v", dst)
	}
	copySlots(dst[:], []uint64{9})
	if dst != [6]uint64{9, 0, 0, 0, 0, 0} {
		t.Fatalf("short source must zero the tail: %v", dst)
	}
	copySlots(dst[:], nil)
	if dst != [6]uint64{} {
		t.Fatalf("nil source must clear: %v", dst)
	}
}

func TestApplyRowInsertAndDelete(t *testing.T) {
	world.reset()
	defer world.reset()

	row := json.RawMessage(`{"id":3,"kind":1,"x":100,"y":200,"respawnAtMs":0}`)
	applyRow(wireRow{Table: "static_resource", Op: "insert", Row: row})
	applyRow(wireRow{Table: "static_resource", Op: "update", Row: row})

	snap := world.capture()
	if len(snap.resources) != 1 || snap.resources[0].Kind != ResourceStone {
		t.Fatalf("resources after apply = %+v", snap.resources)
	}

	applyRow(wireRow{Table: "static_resource", Op: "delete", Row: json.RawMessage(`{"id":3}`)})
	if snap := world.capture(); len(snap.resources) != 0 {
		t.Fatalf("delete left %d rows", len(snap.resources))
	}
}

func TestApplyRowUnknownTableIgnored(t *testing.T) {
	world.reset()
	defer world.reset()
	applyRow(wireRow{Table: "no_such_table", Op: "insert", Row: json.RawMessage(`{}`)})
	applyRow(wireRow{Table: "player", Op: "insert", Row: json.RawMessage(`not json`)})
	if snap := world.capture(); len(snap.players) != 0 {
		t.Fatalf("malformed row stored a player")
	}
}

func TestNotifyPlacedByFiltersIdentity(t *testing.T) {
	world.reset()
	defer func() {
		world.reset()
		onEntityPlaced = nil
	}()
	world.setLocalIdentity("me")

	var got []string
	onEntityPlaced = func(name string) { got = append(got, name) }

	mine := json.RawMessage(`{"id":1,"x":10,"y":10,"slots":[],"placedBy":"me"}`)
	theirs := json.RawMessage(`{"id":2,"x":20,"y":10,"slots":[],"placedBy":"other"}`)
	applyRow(wireRow{Table: "campfire", Op: "insert", Row: mine})
	applyRow(wireRow{Table: "campfire", Op: "insert", Row: theirs})

	if len(got) != 1 || got[0] != "Camp Fire" {
		t.Fatalf("placement notifications = %v, want [Camp Fire]", got)
	}
}
