package main

import "sync"

// Replicated entity types. Every value in this file arrives from the server
// as a full-row snapshot and is treated as immutable once stored; relocating
// an item, lighting a fire and so on all happen server-side and come back as
// row updates.

type Direction uint8

const (
	DirDown Direction = iota
	DirUp
	DirLeft
	DirRight
)

type PlayerState struct {
	Identity   string
	Name       string
	Pos        Vec2
	Dir        Direction
	Health     float64
	Stamina    float64
	Hunger     float64
	Thirst     float64
	Warmth     float64
	IsDead     bool
	IsTorchLit bool
	IsSprint   bool
	LastHitMs  int64
	LastMealMs int64
}

type ResourceKind uint8

const (
	ResourceTree ResourceKind = iota
	ResourceStone
	ResourceMushroom
	ResourceCorn
	ResourcePumpkin
	ResourceHemp
)

type StaticResource struct {
	ID   uint64
	Kind ResourceKind
	Pos  Vec2
	// RespawnAtMs is zero while the node is harvestable. A depleted node is
	// skipped by the interaction finder and drawn as a stump/ghost.
	RespawnAtMs int64
}

const (
	campfireSlotCount = 6
	boxSlotCount      = 18
	stashSlotCount    = 6
	corpseSlotCount   = 30
)

// Slot arrays hold item instance IDs; zero means empty. Fixed-size arrays
// replace the original's string-templated slot fields.
type Campfire struct {
	ID        uint64
	Pos       Vec2
	Slots     [campfireSlotCount]uint64
	IsBurning bool
	PlacedBy  string
}

type StorageBox struct {
	ID          uint64
	Pos         Vec2
	Slots       [boxSlotCount]uint64
	IsDestroyed bool
	PlacedBy    string
}

type Stash struct {
	ID       uint64
	Pos      Vec2
	Slots    [stashSlotCount]uint64
	IsHidden bool
	PlacedBy string
}

type PlayerCorpse struct {
	ID          uint64
	Pos         Vec2
	Slots       [corpseSlotCount]uint64
	OwnerName   string
	DespawnAtMs int64
}

type SleepingBag struct {
	ID          uint64
	Pos         Vec2
	PlacedBy    string
	IsDestroyed bool
}

type DroppedItem struct {
	ID        uint64
	Pos       Vec2
	ItemDefID uint64
	Quantity  uint32
}

type LocationKind uint8

const (
	LocationInventory LocationKind = iota
	LocationHotbar
	LocationEquipped
	LocationContainer
)

type EquipSlot uint8

const (
	EquipHead EquipSlot = iota
	EquipChest
	EquipLegs
	EquipFeet
	EquipHands
	EquipBack
)

type ContainerKind uint8

const (
	ContainerCampfire ContainerKind = iota
	ContainerBox
	ContainerStash
	ContainerCorpse
)

// ItemLocation is the tagged union naming the single owner of an item
// instance. Kind selects which of the remaining fields are meaningful;
// consumers switch on it exhaustively.
type ItemLocation struct {
	Kind          LocationKind
	OwnerIdentity string
	Slot          int
	EquipSlot     EquipSlot
	ContainerKind ContainerKind
	ContainerID   uint64
}

type InventoryItem struct {
	InstanceID uint64
	ItemDefID  uint64
	Quantity   uint32
	Location   ItemLocation
}

type ItemCategory uint8

const (
	CategoryTool ItemCategory = iota
	CategoryWeapon
	CategoryConsumable
	CategoryMaterial
	CategoryPlaceable
	CategoryArmor
	CategoryFuel
)

type ItemDefinition struct {
	ID          uint64
	Name        string
	Icon        string
	Category    ItemCategory
	Damage      float64
	Satiation   float64
	Hydration   float64
	FuelSecs    float64
	ArmorValue  float64
	IsStackable bool
	StackSize   uint32
}

type WorldState struct {
	// CycleProgress is normalized [0,1) within one day/night cycle.
	CycleProgress float64
	IsFullMoon    bool
	CycleCount    uint32
}

// world is the single writer-side store for all replicated tables. The
// replication goroutine mutates it under mu; the game loop only ever reads
// through captureWorldSnapshot.
type worldStore struct {
	mu sync.Mutex

	players   map[string]PlayerState
	resources map[uint64]StaticResource
	campfires map[uint64]Campfire
	boxes     map[uint64]StorageBox
	stashes   map[uint64]Stash
	corpses   map[uint64]PlayerCorpse
	bags      map[uint64]SleepingBag
	dropped   map[uint64]DroppedItem
	items     map[uint64]InventoryItem
	itemDefs  map[uint64]ItemDefinition
	state     WorldState

	localIdentity string
	generation    uint64
}

var world = newWorldStore()

func newWorldStore() *worldStore {
	return &worldStore{
		players:   make(map[string]PlayerState),
		resources: make(map[uint64]StaticResource),
		campfires: make(map[uint64]Campfire),
		boxes:     make(map[uint64]StorageBox),
		stashes:   make(map[uint64]Stash),
		corpses:   make(map[uint64]PlayerCorpse),
		bags:      make(map[uint64]SleepingBag),
		dropped:   make(map[uint64]DroppedItem),
		items:     make(map[uint64]InventoryItem),
		itemDefs:  make(map[uint64]ItemDefinition),
	}
}

// reset drops every table. Called when a subscription is torn down so the
// next snapshot rebuilds the world from scratch.
func (w *worldStore) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.players = make(map[string]PlayerState)
	w.resources = make(map[uint64]StaticResource)
	w.campfires = make(map[uint64]Campfire)
	w.boxes = make(map[uint64]StorageBox)
	w.stashes = make(map[uint64]Stash)
	w.corpses = make(map[uint64]PlayerCorpse)
	w.bags = make(map[uint64]SleepingBag)
	w.dropped = make(map[uint64]DroppedItem)
	w.items = make(map[uint64]InventoryItem)
	w.itemDefs = make(map[uint64]ItemDefinition)
	w.state = WorldState{}
	w.generation++
}

func (w *worldStore) setLocalIdentity(id string) {
	w.mu.Lock()
	w.localIdentity = id
	w.mu.Unlock()
}

// Upserts are idempotent by construction: applying the same row twice leaves
// the table unchanged. Deletes of unknown keys are no-ops.

func (w *worldStore) upsertPlayer(p PlayerState) {
	w.mu.Lock()
	w.players[p.Identity] = p
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) deletePlayer(identity string) {
	w.mu.Lock()
	delete(w.players, identity)
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) upsertResource(r StaticResource) {
	w.mu.Lock()
	w.resources[r.ID] = r
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) deleteResource(id uint64) {
	w.mu.Lock()
	delete(w.resources, id)
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) upsertCampfire(c Campfire) {
	w.mu.Lock()
	w.campfires[c.ID] = c
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) deleteCampfire(id uint64) {
	w.mu.Lock()
	delete(w.campfires, id)
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) upsertBox(b StorageBox) {
	w.mu.Lock()
	w.boxes[b.ID] = b
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) deleteBox(id uint64) {
	w.mu.Lock()
	delete(w.boxes, id)
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) upsertStash(s Stash) {
	w.mu.Lock()
	w.stashes[s.ID] = s
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) deleteStash(id uint64) {
	w.mu.Lock()
	delete(w.stashes, id)
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) upsertCorpse(c PlayerCorpse) {
	w.mu.Lock()
	w.corpses[c.ID] = c
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) deleteCorpse(id uint64) {
	w.mu.Lock()
	delete(w.corpses, id)
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) upsertBag(b SleepingBag) {
	w.mu.Lock()
	w.bags[b.ID] = b
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) deleteBag(id uint64) {
	w.mu.Lock()
	delete(w.bags, id)
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) upsertDropped(d DroppedItem) {
	w.mu.Lock()
	w.dropped[d.ID] = d
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) deleteDropped(id uint64) {
	w.mu.Lock()
	delete(w.dropped, id)
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) upsertItem(it InventoryItem) {
	w.mu.Lock()
	w.items[it.InstanceID] = it
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) deleteItem(id uint64) {
	w.mu.Lock()
	delete(w.items, id)
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) upsertItemDef(d ItemDefinition) {
	w.mu.Lock()
	w.itemDefs[d.ID] = d
	w.generation++
	w.mu.Unlock()
}

func (w *worldStore) setWorldState(s WorldState) {
	w.mu.Lock()
	w.state = s
	w.generation++
	w.mu.Unlock()
}

// worldSnapshot is a read-only copy of the store taken once per frame. The
// render loop never touches the live maps, so replication applies can land
// mid-frame without tearing.
type worldSnapshot struct {
	players   []PlayerState
	local     *PlayerState
	resources []StaticResource
	campfires []Campfire
	boxes     []StorageBox
	stashes   []Stash
	corpses   []PlayerCorpse
	bags      []SleepingBag
	dropped   []DroppedItem
	items     map[uint64]InventoryItem
	itemDefs  map[uint64]ItemDefinition
	state     WorldState

	localIdentity string
	generation    uint64
}

func (w *worldStore) capture() worldSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := worldSnapshot{
		players:       make([]PlayerState, 0, len(w.players)),
		resources:     make([]StaticResource, 0, len(w.resources)),
		campfires:     make([]Campfire, 0, len(w.campfires)),
		boxes:         make([]StorageBox, 0, len(w.boxes)),
		stashes:       make([]Stash, 0, len(w.stashes)),
		corpses:       make([]PlayerCorpse, 0, len(w.corpses)),
		bags:          make([]SleepingBag, 0, len(w.bags)),
		dropped:       make([]DroppedItem, 0, len(w.dropped)),
		items:         make(map[uint64]InventoryItem, len(w.items)),
		itemDefs:      make(map[uint64]ItemDefinition, len(w.itemDefs)),
		state:         w.state,
		localIdentity: w.localIdentity,
		generation:    w.generation,
	}
	for _, p := range w.players {
		snap.players = append(snap.players, p)
		if p.Identity == w.localIdentity {
			lp := p
			snap.local = &lp
		}
	}
	for _, r := range w.resources {
		snap.resources = append(snap.resources, r)
	}
	for _, c := range w.campfires {
		snap.campfires = append(snap.campfires, c)
	}
	for _, b := range w.boxes {
		snap.boxes = append(snap.boxes, b)
	}
	for _, s := range w.stashes {
		snap.stashes = append(snap.stashes, s)
	}
	for _, c := range w.corpses {
		snap.corpses = append(snap.corpses, c)
	}
	for _, b := range w.bags {
		snap.bags = append(snap.bags, b)
	}
	for _, d := range w.dropped {
		snap.dropped = append(snap.dropped, d)
	}
	for id, it := range w.items {
		snap.items[id] = it
	}
	for id, d := range w.itemDefs {
		snap.itemDefs[id] = d
	}
	return snap
}

// itemAt resolves the item instance occupying a slot, if any. Used by the
// drag manager to validate drops before dispatch.
func (s *worldSnapshot) itemAt(ref slotRef) (InventoryItem, bool) {
	switch ref.Kind {
	case slotInventory, slotHotbar, slotEquip:
		for _, it := range s.items {
			loc := it.Location
			if loc.OwnerIdentity != s.localIdentity {
				continue
			}
			switch {
			case ref.Kind == slotInventory && loc.Kind == LocationInventory && loc.Slot == ref.Index:
				return it, true
			case ref.Kind == slotHotbar && loc.Kind == LocationHotbar && loc.Slot == ref.Index:
				return it, true
			case ref.Kind == slotEquip && loc.Kind == LocationEquipped && loc.EquipSlot == EquipSlot(ref.Index):
				return it, true
			}
		}
	case slotContainer:
		id := s.containerSlotInstance(ref)
		if id != 0 {
			if it, ok := s.items[id]; ok {
				return it, true
			}
		}
	}
	return InventoryItem{}, false
}

func (s *worldSnapshot) containerSlotInstance(ref slotRef) uint64 {
	switch ref.ContainerKind {
	case ContainerCampfire:
		for _, c := range s.campfires {
			if c.ID == ref.ContainerID && ref.Index >= 0 && ref.Index < campfireSlotCount {
				return c.Slots[ref.Index]
			}
		}
	case ContainerBox:
		for _, b := range s.boxes {
			if b.ID == ref.ContainerID && ref.Index >= 0 && ref.Index < boxSlotCount {
				return b.Slots[ref.Index]
			}
		}
	case ContainerStash:
		for _, st := range s.stashes {
			if st.ID == ref.ContainerID && ref.Index >= 0 && ref.Index < stashSlotCount {
				return st.Slots[ref.Index]
			}
		}
	case ContainerCorpse:
		for _, c := range s.corpses {
			if c.ID == ref.ContainerID && ref.Index >= 0 && ref.Index < corpseSlotCount {
				return c.Slots[ref.Index]
			}
		}
	}
	return 0
}
