package main

// Interaction target finder. Every frame it scans each interactable category
// and keeps the closest qualifying entity per category. Distances compare
// against per-category squared thresholds; the comparison point is the
// entity's visual interaction point, which sits above the stored anchor for
// tall sprites.

type targetRef struct {
	ID uint64
	OK bool
}

type interactionTargets struct {
	Resource    targetRef
	Campfire    targetRef
	DroppedItem targetRef
	Box         targetRef
	Stash       targetRef
	Corpse      targetRef
	SleepingBag targetRef

	// ClosestBoxEmpty reports whether every slot of the closest box is empty.
	ClosestBoxEmpty bool
}

// Squared interaction thresholds. The stash deliberately has a shorter reach
// while hidden: finding a buried stash is supposed to be harder than opening
// a surfaced one.
const (
	resourceRangeSq      = 64.0 * 64.0
	campfireRangeSq      = 72.0 * 72.0
	droppedItemRangeSq   = 56.0 * 56.0
	boxRangeSq           = 72.0 * 72.0
	corpseRangeSq        = 80.0 * 80.0
	sleepingBagRangeSq   = 72.0 * 72.0
	stashSurfacedRangeSq = 72.0 * 72.0
	stashHiddenRangeSq   = 40.0 * 40.0
)

// Visual interaction points sit above the logical anchor for sprites whose
// clickable mass is their upper body.
const (
	resourceInteractOffsetY = -18.0
	campfireInteractOffsetY = -10.0
	boxInteractOffsetY      = -12.0
	corpseInteractOffsetY   = -6.0
)

// categoryScan tracks the running minimum for one category. Ties on distance
// break toward the lower ID so results are deterministic regardless of map
// iteration order.
type categoryScan struct {
	best   float64
	bestID uint64
	found  bool
}

func (c *categoryScan) consider(id uint64, d2, limit float64) {
	if d2 > limit {
		return
	}
	if !c.found || d2 < c.best || (d2 == c.best && id < c.bestID) {
		c.best = d2
		c.bestID = id
		c.found = true
	}
}

func (c *categoryScan) ref() targetRef { return targetRef{ID: c.bestID, OK: c.found} }

// findInteractionTargets resolves the closest interactable of every category
// for the given player position. nowMs gates out resources waiting on their
// respawn timer.
func findInteractionTargets(snap *worldSnapshot, playerPos Vec2, nowMs int64) interactionTargets {
	var out interactionTargets

	var res categoryScan
	for _, r := range snap.resources {
		if r.RespawnAtMs != 0 && r.RespawnAtMs > nowMs {
			continue
		}
		p := Vec2{r.Pos.X, r.Pos.Y + resourceInteractOffsetY}
		res.consider(r.ID, dist2(playerPos, p), resourceRangeSq)
	}
	out.Resource = res.ref()

	var fire categoryScan
	for _, c := range snap.campfires {
		p := Vec2{c.Pos.X, c.Pos.Y + campfireInteractOffsetY}
		fire.consider(c.ID, dist2(playerPos, p), campfireRangeSq)
	}
	out.Campfire = fire.ref()

	var drop categoryScan
	for _, d := range snap.dropped {
		drop.consider(d.ID, dist2(playerPos, d.Pos), droppedItemRangeSq)
	}
	out.DroppedItem = drop.ref()

	var box categoryScan
	for _, b := range snap.boxes {
		if b.IsDestroyed {
			continue
		}
		p := Vec2{b.Pos.X, b.Pos.Y + boxInteractOffsetY}
		box.consider(b.ID, dist2(playerPos, p), boxRangeSq)
	}
	out.Box = box.ref()
	if out.Box.OK {
		for _, b := range snap.boxes {
			if b.ID == out.Box.ID {
				out.ClosestBoxEmpty = slotsAllEmpty(b.Slots[:])
				break
			}
		}
	}

	var stash categoryScan
	for _, s := range snap.stashes {
		limit := stashSurfacedRangeSq
		if s.IsHidden {
			limit = stashHiddenRangeSq
		}
		stash.consider(s.ID, dist2(playerPos, s.Pos), limit)
	}
	out.Stash = stash.ref()

	var corpse categoryScan
	for _, c := range snap.corpses {
		p := Vec2{c.Pos.X, c.Pos.Y + corpseInteractOffsetY}
		corpse.consider(c.ID, dist2(playerPos, p), corpseRangeSq)
	}
	out.Corpse = corpse.ref()

	var bag categoryScan
	for _, b := range snap.bags {
		if b.IsDestroyed {
			continue
		}
		bag.consider(b.ID, dist2(playerPos, b.Pos), sleepingBagRangeSq)
	}
	out.SleepingBag = bag.ref()

	return out
}

func slotsAllEmpty(slots []uint64) bool {
	for _, s := range slots {
		if s != 0 {
			return false
		}
	}
	return true
}

// targetForKind maps a container kind to its current finder result, used by
// the panel auto-close check.
func (t interactionTargets) targetForKind(kind ContainerKind) targetRef {
	switch kind {
	case ContainerCampfire:
		return t.Campfire
	case ContainerBox:
		return t.Box
	case ContainerStash:
		return t.Stash
	case ContainerCorpse:
		return t.Corpse
	}
	return targetRef{}
}
