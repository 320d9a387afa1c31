package main

import "testing"

func hoverActive(h *hoverSet, id string, nowMs float64) bool {
	for _, a := range h.Active(nowMs) {
		if a == id {
			return true
		}
	}
	return false
}

func TestHoverSetDecay(t *testing.T) {
	h := newHoverSet()
	h.Mark("alice", 1000)
	if !hoverActive(h, "alice", 1000+hoverDecayMs-1) {
		t.Fatalf("entry expired early")
	}
	if hoverActive(h, "alice", 1000+hoverDecayMs) {
		t.Fatalf("entry survives past its decay window")
	}

	// re-marking restarts the window
	h.Mark("alice", 1500)
	if !hoverActive(h, "alice", 1500+hoverDecayMs-1) {
		t.Fatalf("re-mark did not restart the window")
	}

	h.Mark("bob", 2000)
	active := h.Active(2100)
	if len(active) != 2 {
		t.Fatalf("active = %v, want both entries", active)
	}
	if got := h.Active(1e12); len(got) != 0 {
		t.Fatalf("expired entries still active: %v", got)
	}

	h.Mark("carol", 3000)
	h.Reset()
	if hoverActive(h, "carol", 3000) {
		t.Fatalf("entry survives reset")
	}
}

func TestDisplayNameTitleCases(t *testing.T) {
	def := ItemDefinition{Name: "wooden storage box"}
	if got := displayName(def); got != "Wooden Storage Box" {
		t.Fatalf("displayName = %q", got)
	}
}

func TestBannerLifecycle(t *testing.T) {
	showBanner("out of range")
	if currentBanner() != "out of range" {
		t.Fatalf("banner not visible after show")
	}
	dismissBanner()
	if currentBanner() != "" {
		t.Fatalf("banner survives dismissal")
	}
}
