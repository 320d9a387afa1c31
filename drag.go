package main

import "image"

// Drag-and-drop manager. Drop targets resolve through an explicit registry of
// screen-space slot regions maintained by the panel layer each frame, not
// through any render-tree walk. The payload is cleared unconditionally on
// pointer-up whatever the outcome; the server's next snapshot is the only
// arbiter of whether the move happened.

type slotKind uint8

const (
	slotInventory slotKind = iota
	slotHotbar
	slotEquip
	slotContainer
)

func (k slotKind) String() string {
	switch k {
	case slotInventory:
		return "inventory"
	case slotHotbar:
		return "hotbar"
	case slotEquip:
		return "equip"
	case slotContainer:
		return "container"
	}
	return "unknown"
}

// slotRef identifies one slot anywhere in the UI. ContainerKind/ContainerID
// are meaningful only when Kind is slotContainer.
type slotRef struct {
	Kind          slotKind
	Index         int
	ContainerKind ContainerKind
	ContainerID   uint64
}

type slotRegion struct {
	Rect image.Rectangle
	Ref  slotRef
}

// slotRegionRegistry is rebuilt by the panel layer every frame in draw order;
// hit tests walk back-to-front so the topmost region wins.
type slotRegionRegistry struct {
	regions []slotRegion
}

func (r *slotRegionRegistry) Clear() { r.regions = r.regions[:0] }

func (r *slotRegionRegistry) Register(rect image.Rectangle, ref slotRef) {
	r.regions = append(r.regions, slotRegion{Rect: rect, Ref: ref})
}

func (r *slotRegionRegistry) hitTest(x, y int) (slotRef, bool) {
	pt := image.Pt(x, y)
	for i := len(r.regions) - 1; i >= 0; i-- {
		if pt.In(r.regions[i].Rect) {
			return r.regions[i].Ref, true
		}
	}
	return slotRef{}, false
}

type dragState uint8

const (
	dragIdle dragState = iota
	dragArmed
	dragActive
)

// dragPayload snapshots the dragged item at pointer-down. SplitQuantity is
// computed once from the source quantity and never revised mid-drag.
type dragPayload struct {
	Item          InventoryItem
	Source        slotRef
	SplitQuantity uint32 // 0 = whole stack
}

type dragButton uint8

const (
	dragButtonLeft dragButton = iota
	dragButtonRight
	dragButtonMiddle
)

const dragThresholdPx = 5

// splitQuantity applies the split rules at drag start: right or middle button
// halves the stack, the shift modifier takes a third instead. Both floor with
// a minimum of one.
func splitQuantity(qty uint32, button dragButton, shift bool) uint32 {
	if button == dragButtonLeft || qty <= 1 {
		return 0
	}
	var q uint32
	if shift {
		q = qty / 3
	} else {
		q = qty / 2
	}
	if q < 1 {
		q = 1
	}
	return q
}

type dragManager struct {
	state   dragState
	payload dragPayload
	startX  int
	startY  int
	didDrag bool

	regions *slotRegionRegistry

	sink *intentSink

	// itemAt lets drop validation inspect the occupant of the target slot
	// without touching live store maps.
	itemAt func(slotRef) (InventoryItem, bool)

	// onContextMenu fires on a right-button release with no drag motion.
	onContextMenu func(slotRef, InventoryItem)
}

func newDragManager(regions *slotRegionRegistry, sink *intentSink) *dragManager {
	return &dragManager{regions: regions, sink: sink}
}

func (d *dragManager) Dragging() bool { return d.state == dragActive }

func (d *dragManager) Payload() (dragPayload, bool) {
	if d.state == dragIdle {
		return dragPayload{}, false
	}
	return d.payload, true
}

// PointerDown arms a drag from a populated slot. The split quantity is fixed
// here, from the source item's quantity at this instant.
func (d *dragManager) PointerDown(x, y int, button dragButton, shift bool, item InventoryItem, source slotRef) {
	d.state = dragArmed
	d.didDrag = false
	d.startX, d.startY = x, y
	split := uint32(0)
	if item.Quantity > 1 {
		split = splitQuantity(item.Quantity, button, shift)
	}
	d.payload = dragPayload{Item: item, Source: source, SplitQuantity: split}
}

func (d *dragManager) PointerMove(x, y int) {
	if d.state != dragArmed && d.state != dragActive {
		return
	}
	dx := x - d.startX
	dy := y - d.startY
	if !d.didDrag && dx*dx+dy*dy > dragThresholdPx*dragThresholdPx {
		d.didDrag = true
		d.state = dragActive
	}
}

// PointerUp resolves the drag. The same physical right-button release is a
// context-menu action when no motion occurred and a drop otherwise; didDrag
// is the only discriminator. Every exit path ends with the payload cleared.
func (d *dragManager) PointerUp(x, y int, button dragButton) {
	if d.state == dragIdle {
		return
	}
	payload := d.payload
	didDrag := d.didDrag
	d.state = dragIdle
	d.payload = dragPayload{}
	d.didDrag = false

	if !didDrag {
		if button == dragButtonRight && d.onContextMenu != nil {
			d.onContextMenu(payload.Source, payload.Item)
		}
		return
	}

	target, ok := d.regions.hitTest(x, y)
	if !ok {
		// No slot under the cursor: the item leaves the UI for the world.
		qty := payload.SplitQuantity
		if qty == 0 {
			qty = payload.Item.Quantity
		}
		d.sink.DropItemToWorld(payload.Item.InstanceID, qty)
		return
	}
	if target == payload.Source {
		return
	}
	if !d.validateDrop(payload, target) {
		return
	}
	if payload.SplitQuantity > 0 {
		d.sink.SplitStackToSlot(payload.Item.InstanceID, payload.SplitQuantity, target)
	} else {
		d.sink.MoveItemToSlot(payload.Item.InstanceID, target)
	}
}

// validateDrop rejects calls the server would certainly refuse. A split onto
// a slot occupied by a different item definition can never merge, so it is
// dropped locally with a banner instead of a round trip.
func (d *dragManager) validateDrop(payload dragPayload, target slotRef) bool {
	if d.itemAt == nil {
		return true
	}
	occupant, occupied := d.itemAt(target)
	if !occupied {
		return true
	}
	if payload.SplitQuantity > 0 && occupant.ItemDefID != payload.Item.ItemDefID {
		logError("cannot split onto a different item")
		return false
	}
	return true
}

// CancelOnBlur abandons any in-progress drag, e.g. when the window loses
// focus mid-gesture.
func (d *dragManager) CancelOnBlur() {
	d.state = dragIdle
	d.payload = dragPayload{}
	d.didDrag = false
}
