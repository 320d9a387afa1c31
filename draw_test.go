package main

import "testing"

func passIndex(t *testing.T, name string) int {
	t.Helper()
	for i, p := range framePasses {
		if p.name == name {
			return i
		}
	}
	t.Fatalf("no %q pass", name)
	return -1
}

// World-space text and the hold ring stay readable at peak night, so they
// render above the darkness mask. Glows blend over everything in the world
// layer, and UI comes last.
func TestFramePassOrdering(t *testing.T) {
	after := [][2]string{
		{"nightMask", "particles"},
		{"worldLabels", "nightMask"},
		{"holdRing", "nightMask"},
		{"lightGlows", "holdRing"},
		{"uiRegions", "lightGlows"},
		{"minimap", "uiRegions"},
		{"hotbar", "uiRegions"},
		{"dragGhost", "containerPanel"},
		{"banner", "dragGhost"},
	}
	for _, pair := range after {
		if passIndex(t, pair[0]) <= passIndex(t, pair[1]) {
			t.Fatalf("%s pass must run after %s", pair[0], pair[1])
		}
	}
}

func TestFramePassNamesUnique(t *testing.T) {
	seen := make(map[string]bool, len(framePasses))
	for _, p := range framePasses {
		if seen[p.name] {
			t.Fatalf("duplicate pass %q", p.name)
		}
		seen[p.name] = true
	}
}

func TestPickupPromptNamesItem(t *testing.T) {
	snap := worldSnapshot{itemDefs: map[uint64]ItemDefinition{
		7: {ID: 7, Name: "wooden storage box"},
	}}

	got := pickupPrompt(&snap, DroppedItem{ItemDefID: 7})
	if got != "[E] pick up Wooden Storage Box" {
		t.Fatalf("prompt = %q", got)
	}
	if got := pickupPrompt(&snap, DroppedItem{ItemDefID: 99}); got != "[E] pick up" {
		t.Fatalf("prompt for unknown definition = %q", got)
	}
}
