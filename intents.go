package main

import (
	"time"

	"golang.org/x/time/rate"
)

// Outbound reducer calls. Every intent carries primitive arguments only and
// is fire-and-forget: the sink never waits for a reply, and any local
// optimistic state is cleared before the server answers. A rejected call is
// corrected by the next authoritative snapshot.

type intent struct {
	Reducer string `json:"reducer"`
	Args    []any  `json:"args"`
}

type intentSink struct {
	queue       chan intent
	moveLimiter *rate.Limiter

	lastMoveX, lastMoveY float64
	lastSprint           bool
}

func newIntentSink(depth int) *intentSink {
	if depth < 1 {
		depth = 64
	}
	return &intentSink{
		queue: make(chan intent, depth),
		// at most one movement vector per 50ms window
		moveLimiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 1),
	}
}

// enqueue hands an intent to the socket writer without ever blocking the
// game loop. A saturated queue drops the call with a diagnostic; the server
// snapshot remains the source of truth either way.
func (s *intentSink) enqueue(in intent) {
	select {
	case s.queue <- in:
	default:
		logDebug("intent queue full, dropping %s", in.Reducer)
	}
}

func (s *intentSink) dequeue() (intent, bool) {
	select {
	case in := <-s.queue:
		return in, true
	default:
		return intent{}, false
	}
}

// UpdateMovement throttles the continuous movement sample and skips the send
// entirely while the vector is unchanged.
func (s *intentSink) UpdateMovement(dx, dy float64, sprinting bool) {
	if dx == s.lastMoveX && dy == s.lastMoveY && sprinting == s.lastSprint {
		return
	}
	if !s.moveLimiter.Allow() {
		return
	}
	s.lastMoveX, s.lastMoveY, s.lastSprint = dx, dy, sprinting
	s.enqueue(intent{Reducer: "update_player_input", Args: []any{dx, dy, sprinting}})
}

func (s *intentSink) Swing(worldX, worldY float64) {
	s.enqueue(intent{Reducer: "swing", Args: []any{worldX, worldY}})
}

// ConfirmInteraction fires once when a hold-to-interact completes.
func (s *intentSink) ConfirmInteraction(targetKind string, targetID uint64) {
	s.enqueue(intent{Reducer: "interact", Args: []any{targetKind, targetID}})
}

func (s *intentSink) PickupDroppedItem(id uint64) {
	s.enqueue(intent{Reducer: "pickup_dropped_item", Args: []any{id}})
}

func (s *intentSink) ToggleCampfire(id uint64, burning bool) {
	s.enqueue(intent{Reducer: "set_campfire_burning", Args: []any{id, burning}})
}

func (s *intentSink) SurfaceStash(id uint64, hidden bool) {
	s.enqueue(intent{Reducer: "set_stash_hidden", Args: []any{id, hidden}})
}

// Item relocation. Slot descriptors flatten to primitives: kind string, slot
// index, container kind/id (zero when absent).
func (s *intentSink) MoveItemToSlot(instanceID uint64, target slotRef) {
	s.enqueue(intent{Reducer: "move_item_to_slot", Args: []any{
		instanceID, target.Kind.String(), target.Index, uint8(target.ContainerKind), target.ContainerID,
	}})
}

func (s *intentSink) SplitStackToSlot(instanceID uint64, quantity uint32, target slotRef) {
	s.enqueue(intent{Reducer: "split_stack_to_slot", Args: []any{
		instanceID, quantity, target.Kind.String(), target.Index, uint8(target.ContainerKind), target.ContainerID,
	}})
}

func (s *intentSink) DropItemToWorld(instanceID uint64, quantity uint32) {
	s.enqueue(intent{Reducer: "drop_item", Args: []any{instanceID, quantity}})
}

func (s *intentSink) ConsumeItem(instanceID uint64) {
	s.enqueue(intent{Reducer: "consume_item", Args: []any{instanceID}})
}

func (s *intentSink) EquipItem(instanceID uint64, slot EquipSlot) {
	s.enqueue(intent{Reducer: "equip_item", Args: []any{instanceID, uint8(slot)}})
}

// Placement intents, one per placeable kind; placement.go owns the name →
// call table.
func (s *intentSink) PlaceCampfire(instanceID uint64, x, y float64) {
	s.enqueue(intent{Reducer: "place_campfire", Args: []any{instanceID, x, y}})
}

func (s *intentSink) PlaceStorageBox(instanceID uint64, x, y float64) {
	s.enqueue(intent{Reducer: "place_storage_box", Args: []any{instanceID, x, y}})
}

func (s *intentSink) PlaceSleepingBag(instanceID uint64, x, y float64) {
	s.enqueue(intent{Reducer: "place_sleeping_bag", Args: []any{instanceID, x, y}})
}

func (s *intentSink) PlaceStash(instanceID uint64, x, y float64) {
	s.enqueue(intent{Reducer: "place_stash", Args: []any{instanceID, x, y}})
}

func (s *intentSink) SetPin(x, y int) {
	s.enqueue(intent{Reducer: "set_map_pin", Args: []any{x, y}})
}

func (s *intentSink) Respawn(bagID uint64) {
	s.enqueue(intent{Reducer: "respawn_at_bag", Args: []any{bagID}})
}
