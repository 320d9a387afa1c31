package main

import (
	"fmt"
	"sync"

	"github.com/agnivade/levenshtein"
)

// Placement manager. Activating a placeable hotbar item enters placement
// mode: a preview sprite follows the world cursor and a validity flag tracks
// whether the spot is within reach. Confirming issues exactly one outbound
// call from the name → intent table; the mode survives until cancel or until
// the placed entity shows up in replicated state.

type placementPayload struct {
	ItemDefID  uint64
	InstanceID uint64
	Name       string
	Icon       string
}

// NotifyPlaced runs on the replication goroutine while every other method
// runs on the game loop, so all state lives behind mu.
type placementManager struct {
	mu      sync.Mutex
	active  bool
	payload placementPayload
	tooFar  bool

	sink *intentSink
}

// placementIntentTable maps an item definition name to its outbound call.
// Extending the game with a new placeable means adding one row here.
var placementIntentTable = map[string]func(s *intentSink, instanceID uint64, x, y float64){
	"Camp Fire":          func(s *intentSink, id uint64, x, y float64) { s.PlaceCampfire(id, x, y) },
	"Wooden Storage Box": func(s *intentSink, id uint64, x, y float64) { s.PlaceStorageBox(id, x, y) },
	"Sleeping Bag":       func(s *intentSink, id uint64, x, y float64) { s.PlaceSleepingBag(id, x, y) },
	"Stash":              func(s *intentSink, id uint64, x, y float64) { s.PlaceStash(id, x, y) },
}

func newPlacementManager(sink *intentSink) *placementManager {
	return &placementManager{sink: sink}
}

func (pm *placementManager) Active() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.active
}

func (pm *placementManager) Payload() (placementPayload, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.payload, pm.active
}

func (pm *placementManager) TooFar() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.tooFar
}

func (pm *placementManager) Begin(def ItemDefinition, instanceID uint64) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.active = true
	pm.tooFar = false
	pm.payload = placementPayload{
		ItemDefID:  def.ID,
		InstanceID: instanceID,
		Name:       def.Name,
		Icon:       def.Icon,
	}
}

func (pm *placementManager) Cancel() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.cancelLocked()
}

func (pm *placementManager) cancelLocked() {
	pm.active = false
	pm.payload = placementPayload{}
}

// UpdateValidity recomputes the too-far flag each frame from the cursor's
// world position versus the interaction range with tolerance.
func (pm *placementManager) UpdateValidity(cursorWorld, playerPos Vec2) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if !pm.active {
		return
	}
	limit := cfg.InteractionRange * cfg.PlacementTolerance
	pm.tooFar = dist2(cursorWorld, playerPos) > limit*limit
}

// Confirm dispatches the placement intent for the selected item. The payload
// is read and dispatched under the lock so a concurrent NotifyPlaced can
// never zero it mid-confirm. An item name with no table entry is a local
// validation error, not a crash; the nearest known name is suggested so a
// data typo is easy to spot.
func (pm *placementManager) Confirm(worldPos Vec2) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if !pm.active {
		return fmt.Errorf("no placement in progress")
	}
	if pm.tooFar {
		return fmt.Errorf("too far away to place %s", pm.payload.Name)
	}
	place, ok := placementIntentTable[pm.payload.Name]
	if !ok {
		if hint := nearestPlaceableName(pm.payload.Name); hint != "" {
			return fmt.Errorf("no placement handler for %q (closest known: %q)", pm.payload.Name, hint)
		}
		return fmt.Errorf("no placement handler for %q", pm.payload.Name)
	}
	place(pm.sink, pm.payload.InstanceID, worldPos.X, worldPos.Y)
	return nil
}

// NotifyPlaced ends placement mode when the awaited entity appears in
// replicated state. Called from the replication goroutine.
func (pm *placementManager) NotifyPlaced(name string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.active && pm.payload.Name == name {
		pm.cancelLocked()
	}
}

func nearestPlaceableName(name string) string {
	best := ""
	bestDist := -1
	for known := range placementIntentTable {
		d := levenshtein.ComputeDistance(name, known)
		if bestDist < 0 || d < bestDist || (d == bestDist && known < best) {
			best = known
			bestDist = d
		}
	}
	if bestDist < 0 || bestDist > len(name) {
		return ""
	}
	return best
}
