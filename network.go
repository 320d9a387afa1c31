package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzip"
)

// Replication client. The server speaks a small JSON protocol over a
// websocket: a HELLO/WELCOME handshake, one gzip-compressed initial snapshot
// as a binary frame, then per-table insert/update/delete rows as text frames.
// Every apply is idempotent, and a reconnect resets the stores before the
// fresh snapshot lands so stale entities cannot survive a resubscribe.

type helloMsg struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Token     string `json:"token,omitempty"`
}

type baseMsg struct {
	Type string `json:"type"`
}

type welcomeMsg struct {
	Type     string `json:"type"`
	Identity string `json:"identity"`
}

type wireRow struct {
	Table string          `json:"table"`
	Op    string          `json:"op"` // insert, update, delete
	Row   json.RawMessage `json:"row"`
}

type rowsMsg struct {
	Type string    `json:"type"`
	Rows []wireRow `json:"rows"`
}

type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type callMsg struct {
	Type    string `json:"type"`
	Reducer string `json:"reducer"`
	Args    []any  `json:"args"`
}

// onEntityPlaced lets the placement manager observe its awaited entity
// arriving in replicated state. Set once during startup.
var onEntityPlaced func(name string)

// runReplication dials and re-dials the server until ctx ends. The render
// loop never waits on it; frames keep drawing whatever snapshot is current.
func runReplication(ctx context.Context, url, name, token string, sink *intentSink) {
	backoff := time.Second
	for ctx.Err() == nil {
		err := replicateOnce(ctx, url, name, token, sink)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logError("connection lost: %v (retrying in %v)", err, backoff)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func replicateOnce(ctx context.Context, url, name, token string, sink *intentSink) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	cancel()
	if err != nil {
		return err
	}
	defer conn.Close()

	hello := helloMsg{
		Type:      "hello",
		SessionID: uuid.NewString(),
		Name:      name,
		Token:     token,
	}
	if err := conn.WriteJSON(hello); err != nil {
		return err
	}

	// A fresh subscription starts from nothing; the snapshot rebuilds it.
	world.reset()

	done := make(chan struct{})
	defer close(done)
	go intentWriter(ctx, done, conn, sink)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if msgType == websocket.BinaryMessage {
			if err := applySnapshot(data); err != nil {
				logError("apply snapshot: %v", err)
			}
			continue
		}
		var base baseMsg
		if err := json.Unmarshal(data, &base); err != nil {
			logDebug("unparseable server frame: %v", err)
			continue
		}
		switch base.Type {
		case "welcome":
			var w welcomeMsg
			if err := json.Unmarshal(data, &w); err != nil {
				continue
			}
			world.setLocalIdentity(w.Identity)
			logDebug("welcome identity=%s", w.Identity)
		case "rows":
			var rm rowsMsg
			if err := json.Unmarshal(data, &rm); err != nil {
				logDebug("bad rows frame: %v", err)
				continue
			}
			for _, r := range rm.Rows {
				applyRow(r)
			}
		case "error":
			var em errorMsg
			if err := json.Unmarshal(data, &em); err == nil {
				logError("server: %s", em.Message)
			}
		default:
			logDebug("unknown frame type %q", base.Type)
		}
	}
}

// intentWriter drains the sink queue onto the socket. A write failure is a
// banner, never a retry: the action is simply lost and the user re-attempts.
func intentWriter(ctx context.Context, done <-chan struct{}, conn *websocket.Conn, sink *intentSink) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			for {
				in, ok := sink.dequeue()
				if !ok {
					break
				}
				msg := callMsg{Type: "call", Reducer: in.Reducer, Args: in.Args}
				if err := conn.WriteJSON(msg); err != nil {
					logError("send %s: %v", in.Reducer, err)
					return
				}
			}
		}
	}
}

// applySnapshot decompresses and applies the initial full state.
func applySnapshot(data []byte) error {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return err
	}
	var snap struct {
		Tables map[string][]json.RawMessage `json:"tables"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return err
	}
	world.reset()
	for table, rows := range snap.Tables {
		for _, row := range rows {
			applyRow(wireRow{Table: table, Op: "insert", Row: row})
		}
	}
	logDebug("snapshot applied: %d tables", len(snap.Tables))
	return nil
}

// Wire row shapes. Slot arrays arrive as variable-length JSON arrays and are
// copied defensively into the fixed-size entity arrays.

type wirePlayer struct {
	Identity   string  `json:"identity"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Dir        uint8   `json:"dir"`
	Health     float64 `json:"health"`
	Stamina    float64 `json:"stamina"`
	Hunger     float64 `json:"hunger"`
	Thirst     float64 `json:"thirst"`
	Warmth     float64 `json:"warmth"`
	IsDead     bool    `json:"isDead"`
	IsTorchLit bool    `json:"isTorchLit"`
	IsSprint   bool    `json:"isSprinting"`
	LastHitMs  int64   `json:"lastHitMs"`
	LastMealMs int64   `json:"lastMealMs"`
}

type wireResource struct {
	ID          uint64  `json:"id"`
	Kind        uint8   `json:"kind"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	RespawnAtMs int64   `json:"respawnAtMs"`
}

type wireContainer struct {
	ID          uint64   `json:"id"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Slots       []uint64 `json:"slots"`
	IsBurning   bool     `json:"isBurning"`
	IsHidden    bool     `json:"isHidden"`
	IsDestroyed bool     `json:"isDestroyed"`
	PlacedBy    string   `json:"placedBy"`
	OwnerName   string   `json:"ownerName"`
	DespawnAtMs int64    `json:"despawnAtMs"`
}

type wireDropped struct {
	ID        uint64  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ItemDefID uint64  `json:"itemDefId"`
	Quantity  uint32  `json:"quantity"`
}

type wireItem struct {
	InstanceID    uint64 `json:"instanceId"`
	ItemDefID     uint64 `json:"itemDefId"`
	Quantity      uint32 `json:"quantity"`
	LocationKind  uint8  `json:"locationKind"`
	OwnerIdentity string `json:"ownerIdentity"`
	Slot          int    `json:"slot"`
	EquipSlot     uint8  `json:"equipSlot"`
	ContainerKind uint8  `json:"containerKind"`
	ContainerID   uint64 `json:"containerId"`
}

type wireItemDef struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Category    uint8   `json:"category"`
	Damage      float64 `json:"damage"`
	Satiation   float64 `json:"satiation"`
	Hydration   float64 `json:"hydration"`
	FuelSecs    float64 `json:"fuelSecs"`
	ArmorValue  float64 `json:"armorValue"`
	IsStackable bool    `json:"isStackable"`
	StackSize   uint32  `json:"stackSize"`
}

type wireWorldState struct {
	CycleProgress float64 `json:"cycleProgress"`
	IsFullMoon    bool    `json:"isFullMoon"`
	CycleCount    uint32  `json:"cycleCount"`
}

type wireDeleteKey struct {
	ID       uint64 `json:"id"`
	Identity string `json:"identity"`
}

func copySlots(dst []uint64, src []uint64) {
	for i := range dst {
		dst[i] = 0
	}
	n := len(src)
	if n > len(dst) {
		n = len(dst)
	}
	copy(dst, src[:n])
}

// applyRow dispatches one table mutation. Unknown tables and malformed rows
// are diagnostics, never crashes; the server may be ahead of this client.
func applyRow(r wireRow) {
	if r.Op == "delete" {
		var key wireDeleteKey
		if err := json.Unmarshal(r.Row, &key); err != nil {
			logDebug("bad delete key for %s: %v", r.Table, err)
			return
		}
		switch r.Table {
		case "player":
			world.deletePlayer(key.Identity)
		case "static_resource":
			world.deleteResource(key.ID)
		case "campfire":
			world.deleteCampfire(key.ID)
		case "storage_box":
			world.deleteBox(key.ID)
		case "stash":
			world.deleteStash(key.ID)
		case "player_corpse":
			world.deleteCorpse(key.ID)
		case "sleeping_bag":
			world.deleteBag(key.ID)
		case "dropped_item":
			world.deleteDropped(key.ID)
		case "inventory_item":
			world.deleteItem(key.ID)
		default:
			logDebug("delete for unknown table %q", r.Table)
		}
		return
	}

	switch r.Table {
	case "player":
		var w wirePlayer
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad player row: %v", err)
			return
		}
		world.upsertPlayer(PlayerState{
			Identity: w.Identity, Name: w.Name,
			Pos: Vec2{w.X, w.Y}, Dir: Direction(w.Dir),
			Health: w.Health, Stamina: w.Stamina,
			Hunger: w.Hunger, Thirst: w.Thirst, Warmth: w.Warmth,
			IsDead: w.IsDead, IsTorchLit: w.IsTorchLit, IsSprint: w.IsSprint,
			LastHitMs: w.LastHitMs, LastMealMs: w.LastMealMs,
		})
	case "static_resource":
		var w wireResource
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad resource row: %v", err)
			return
		}
		world.upsertResource(StaticResource{
			ID: w.ID, Kind: ResourceKind(w.Kind),
			Pos: Vec2{w.X, w.Y}, RespawnAtMs: w.RespawnAtMs,
		})
	case "campfire":
		var w wireContainer
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad campfire row: %v", err)
			return
		}
		c := Campfire{ID: w.ID, Pos: Vec2{w.X, w.Y}, IsBurning: w.IsBurning, PlacedBy: w.PlacedBy}
		copySlots(c.Slots[:], w.Slots)
		world.upsertCampfire(c)
		notifyPlacedBy(w.PlacedBy, "Camp Fire")
	case "storage_box":
		var w wireContainer
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad box row: %v", err)
			return
		}
		b := StorageBox{ID: w.ID, Pos: Vec2{w.X, w.Y}, IsDestroyed: w.IsDestroyed, PlacedBy: w.PlacedBy}
		copySlots(b.Slots[:], w.Slots)
		world.upsertBox(b)
		notifyPlacedBy(w.PlacedBy, "Wooden Storage Box")
	case "stash":
		var w wireContainer
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad stash row: %v", err)
			return
		}
		s := Stash{ID: w.ID, Pos: Vec2{w.X, w.Y}, IsHidden: w.IsHidden, PlacedBy: w.PlacedBy}
		copySlots(s.Slots[:], w.Slots)
		world.upsertStash(s)
		notifyPlacedBy(w.PlacedBy, "Stash")
	case "player_corpse":
		var w wireContainer
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad corpse row: %v", err)
			return
		}
		c := PlayerCorpse{ID: w.ID, Pos: Vec2{w.X, w.Y}, OwnerName: w.OwnerName, DespawnAtMs: w.DespawnAtMs}
		copySlots(c.Slots[:], w.Slots)
		world.upsertCorpse(c)
	case "sleeping_bag":
		var w wireContainer
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad bag row: %v", err)
			return
		}
		world.upsertBag(SleepingBag{ID: w.ID, Pos: Vec2{w.X, w.Y}, PlacedBy: w.PlacedBy, IsDestroyed: w.IsDestroyed})
		notifyPlacedBy(w.PlacedBy, "Sleeping Bag")
	case "dropped_item":
		var w wireDropped
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad dropped row: %v", err)
			return
		}
		world.upsertDropped(DroppedItem{ID: w.ID, Pos: Vec2{w.X, w.Y}, ItemDefID: w.ItemDefID, Quantity: w.Quantity})
	case "inventory_item":
		var w wireItem
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad item row: %v", err)
			return
		}
		world.upsertItem(InventoryItem{
			InstanceID: w.InstanceID, ItemDefID: w.ItemDefID, Quantity: w.Quantity,
			Location: ItemLocation{
				Kind:          LocationKind(w.LocationKind),
				OwnerIdentity: w.OwnerIdentity,
				Slot:          w.Slot,
				EquipSlot:     EquipSlot(w.EquipSlot),
				ContainerKind: ContainerKind(w.ContainerKind),
				ContainerID:   w.ContainerID,
			},
		})
	case "item_definition":
		var w wireItemDef
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad item def row: %v", err)
			return
		}
		world.upsertItemDef(ItemDefinition{
			ID: w.ID, Name: w.Name, Icon: w.Icon, Category: ItemCategory(w.Category),
			Damage: w.Damage, Satiation: w.Satiation, Hydration: w.Hydration,
			FuelSecs: w.FuelSecs, ArmorValue: w.ArmorValue,
			IsStackable: w.IsStackable, StackSize: w.StackSize,
		})
	case "world_state":
		var w wireWorldState
		if err := json.Unmarshal(r.Row, &w); err != nil {
			logDebug("bad world state row: %v", err)
			return
		}
		world.setWorldState(WorldState{
			CycleProgress: w.CycleProgress,
			IsFullMoon:    w.IsFullMoon,
			CycleCount:    w.CycleCount,
		})
	default:
		logDebug("row for unknown table %q", r.Table)
	}
}

// notifyPlacedBy forwards a local player's placement confirmation.
func notifyPlacedBy(placedBy, name string) {
	if onEntityPlaced == nil {
		return
	}
	world.mu.Lock()
	local := world.localIdentity
	world.mu.Unlock()
	if placedBy != "" && placedBy == local {
		onEntityPlaced(name)
	}
}
