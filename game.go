package main

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game is the per-frame driver. Update merges input and advances every
// derived-state system; Draw composes the passes in draw.go. All state here
// is derived: a fresh snapshot plus wall-clock time can rebuild it, which is
// what makes reconnects safe.

type Game struct {
	start     time.Time
	lastFrame time.Time

	canvasW, canvasH int

	snap     worldSnapshot
	camera   Vec2
	viewport worldRect

	night   *nightEngine
	overlay overlayColor
	lights  []lightSource

	particles *particleSystem
	targets   interactionTargets

	sink      *intentSink
	input     *inputController
	regions   *slotRegionRegistry
	drag      *dragManager
	placement *placementManager
	minimap   *minimapView
	panel     containerPanel
	hover     *hoverSet
	modal     modalState

	lastIdentity string

	hotbarSlot int

	prevLeftDown   bool
	prevRightDown  bool
	prevMiddleDown bool
}

func newGame(sink *intentSink) *Game {
	regions := &slotRegionRegistry{}
	g := &Game{
		start:      time.Now(),
		canvasW:    gs.WindowW,
		canvasH:    gs.WindowH,
		night:      newNightEngine(),
		particles:  newParticleSystem(),
		sink:       sink,
		input:      newInputController(sink),
		regions:    regions,
		drag:       newDragManager(regions, sink),
		placement:  newPlacementManager(sink),
		minimap:    newMinimapView(),
		hover:      newHoverSet(),
		hotbarSlot: 0,
	}
	g.drag.itemAt = func(ref slotRef) (InventoryItem, bool) { return g.snap.itemAt(ref) }
	g.drag.onContextMenu = g.handleSlotContextMenu
	onEntityPlaced = g.placement.NotifyPlaced
	return g
}

// nowMs is monotonic wall-clock milliseconds since the game started.
func (g *Game) nowMs() float64 {
	return float64(time.Since(g.start)) / float64(time.Millisecond)
}

func (g *Game) Update() error {
	now := time.Now()
	dtMs := 0.0
	if !g.lastFrame.IsZero() {
		dtMs = float64(now.Sub(g.lastFrame)) / float64(time.Millisecond)
		if dtMs < 0 {
			// reject clock regressions
			dtMs = 0
		}
	}
	g.lastFrame = now
	nowMs := g.nowMs()

	g.snap = world.capture()
	if g.snap.localIdentity != g.lastIdentity {
		g.hover.Reset()
		g.lastIdentity = g.snap.localIdentity
	}
	g.camera = cameraOffset(g.canvasW, g.canvasH, g.snap.local)
	g.viewport = viewportRect(g.camera, g.canvasW, g.canvasH)

	cx, cy := ebiten.CursorPosition()
	cursorWorld := screenToWorld(cx, cy, g.camera)

	g.handleModalKeys()
	g.handleMinimapInput(cx, cy)
	g.handlePointer(cx, cy, cursorWorld)
	g.handleHotbarKeys()

	sample := g.sampleControls(cursorWorld)
	nowWallMs := time.Now().UnixMilli()
	if g.snap.local != nil {
		g.targets = findInteractionTargets(&g.snap, g.snap.local.Pos, nowWallMs)
	} else {
		g.targets = interactionTargets{}
	}
	g.panel.Update(g.targets)
	g.input.Process(nowMs, sample, g.modal, g.targets, g.snap.local)
	g.handlePanelKeys()

	if g.placement.Active() && g.snap.local != nil {
		g.placement.UpdateValidity(cursorWorld, g.snap.local.Pos)
	}

	g.particles.Update(nowMs, dtMs, collectEmissionSources(&g.snap))

	g.overlay = g.night.interpolateOverlay(g.snap.state.CycleProgress, g.snap.state.IsFullMoon)
	g.lights = collectLightSources(&g.snap, g.camera)

	g.updateHover(cursorWorld, nowMs)

	g.prevLeftDown = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	g.prevRightDown = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	g.prevMiddleDown = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	return nil
}

func (g *Game) handleModalKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.modal.ChatOpen = !g.modal.ChatOpen
	}
	if !g.modal.ChatOpen && inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.modal.InventoryOpen = !g.modal.InventoryOpen
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		switch {
		case g.placement.Active():
			g.placement.Cancel()
		case g.panel.Open:
			g.panel.Close()
		case g.modal.InventoryOpen:
			g.modal.InventoryOpen = false
		case g.modal.ChatOpen:
			g.modal.ChatOpen = false
		default:
			dismissBanner()
		}
	}
}

// sampleControls reads the continuously-held key set. Movement is sampled
// every frame, never edge-triggered.
func (g *Game) sampleControls(cursorWorld Vec2) controlsSample {
	var s controlsSample
	if g.modal.blocksGameInput() {
		return s
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		s.MoveY--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		s.MoveY++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		s.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		s.MoveX++
	}
	s.Sprint = ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	s.InteractDown = ebiten.IsKeyPressed(ebiten.KeyF)
	s.InteractPressed = inpututil.IsKeyJustPressed(ebiten.KeyF)
	s.InteractReleased = inpututil.IsKeyJustReleased(ebiten.KeyF)
	s.CursorWorld = cursorWorld

	// Left click swings only when it is not claimed by UI, drag or placement.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) &&
		!g.drag.Dragging() && !g.placement.Active() && !g.cursorOverUI() {
		s.SwingPressed = true
	}
	return s
}

func (g *Game) cursorOverUI() bool {
	x, y := ebiten.CursorPosition()
	if _, over := g.regions.hitTest(x, y); over {
		return true
	}
	return g.cursorOverMinimap(x, y)
}

func (g *Game) minimapRect() image.Rectangle {
	size := cfg.MinimapSize
	return image.Rect(g.canvasW-size-12, g.canvasH-size-12, g.canvasW-12, g.canvasH-12)
}

func (g *Game) cursorOverMinimap(x, y int) bool {
	return gs.ShowMinimap && image.Pt(x, y).In(g.minimapRect())
}

func (g *Game) handleMinimapInput(x, y int) {
	if !g.cursorOverMinimap(x, y) {
		g.minimap.HandleDrag(x, y, false, g.snap.local)
		return
	}
	r := g.minimapRect()
	local := Vec2{float64(x - r.Min.X), float64(y - r.Min.Y)}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.minimap.HandleWheel(local, wy, g.snap.local)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		g.minimap.Reset()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.minimap.HandlePin(local, g.snap.local, g.sink)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if g.minimap.HandleRespawnClick(local, &g.snap, g.sink) {
			return
		}
	}
	g.minimap.HandleDrag(x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), g.snap.local)
}

// handlePointer drives the drag manager and placement confirmation from raw
// mouse transitions.
func (g *Game) handlePointer(x, y int, cursorWorld Vec2) {
	leftDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	rightDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middleDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	if g.placement.Active() && !g.cursorOverUI() {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			if err := g.placement.Confirm(cursorWorld); err != nil {
				logError("%v", err)
			} else {
				playSound("place")
			}
			return
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			g.placement.Cancel()
			return
		}
	}

	// Drag start: any button pressed over a populated slot region.
	pressedButton := dragButtonLeft
	justPressed := false
	switch {
	case leftDown && !g.prevLeftDown:
		pressedButton, justPressed = dragButtonLeft, true
	case rightDown && !g.prevRightDown:
		pressedButton, justPressed = dragButtonRight, true
	case middleDown && !g.prevMiddleDown:
		pressedButton, justPressed = dragButtonMiddle, true
	}
	if justPressed && !g.cursorOverMinimap(x, y) {
		if ref, ok := g.regions.hitTest(x, y); ok {
			if item, occupied := g.snap.itemAt(ref); occupied {
				g.drag.PointerDown(x, y, pressedButton, shift, item, ref)
			}
		}
	}

	g.drag.PointerMove(x, y)

	switch {
	case !leftDown && g.prevLeftDown:
		g.drag.PointerUp(x, y, dragButtonLeft)
	case !rightDown && g.prevRightDown:
		g.drag.PointerUp(x, y, dragButtonRight)
	case !middleDown && g.prevMiddleDown:
		g.drag.PointerUp(x, y, dragButtonMiddle)
	}

	if !ebiten.IsFocused() {
		g.drag.CancelOnBlur()
	}
}

// handleHotbarKeys selects hotbar slots and activates placeable items.
func (g *Game) handleHotbarKeys() {
	if g.modal.blocksGameInput() {
		return
	}
	keys := []ebiten.Key{
		ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
		ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	}
	for i, k := range keys {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		g.hotbarSlot = i
		item, ok := g.snap.itemAt(slotRef{Kind: slotHotbar, Index: i})
		if !ok {
			continue
		}
		def, ok := g.snap.itemDefs[item.ItemDefID]
		if !ok {
			continue
		}
		switch def.Category {
		case CategoryPlaceable:
			g.placement.Begin(def, item.InstanceID)
		case CategoryConsumable:
			g.sink.ConsumeItem(item.InstanceID)
		}
	}
}

// handlePanelKeys opens the container panel for the closest container when
// the use key fires.
func (g *Game) handlePanelKeys() {
	if g.modal.blocksGameInput() {
		return
	}
	// T toggles the open container's primary action.
	if g.panel.Open && inpututil.IsKeyJustPressed(ebiten.KeyT) {
		switch g.panel.Kind {
		case ContainerCampfire:
			if c, ok := g.campfireByID(g.panel.ID); ok {
				g.sink.ToggleCampfire(c.ID, !c.IsBurning)
			}
		case ContainerStash:
			if st, hidden, ok := g.stashByID(g.panel.ID); ok && !hidden {
				g.sink.SurfaceStash(st.ID, true)
			}
		}
	}
	if !inpututil.IsKeyJustPressed(ebiten.KeyE) {
		return
	}
	switch {
	case g.targets.Box.OK:
		g.panel.OpenFor(ContainerBox, g.targets.Box.ID)
	case g.targets.Campfire.OK:
		g.panel.OpenFor(ContainerCampfire, g.targets.Campfire.ID)
	case g.targets.Stash.OK:
		g.panel.OpenFor(ContainerStash, g.targets.Stash.ID)
	case g.targets.Corpse.OK:
		g.panel.OpenFor(ContainerCorpse, g.targets.Corpse.ID)
	case g.targets.DroppedItem.OK:
		g.sink.PickupDroppedItem(g.targets.DroppedItem.ID)
	}
}

// updateHover marks players under the cursor; entries decay on their own.
func (g *Game) updateHover(cursorWorld Vec2, nowMs float64) {
	const hoverRadiusSq = 28.0 * 28.0
	for _, p := range g.snap.players {
		if p.Identity == g.snap.localIdentity {
			continue
		}
		if dist2(p.Pos, cursorWorld) <= hoverRadiusSq {
			g.hover.Mark(p.Identity, nowMs)
		}
	}
}

func (g *Game) handleSlotContextMenu(ref slotRef, item InventoryItem) {
	def, ok := g.snap.itemDefs[item.ItemDefID]
	if !ok {
		return
	}
	// Right click without motion: consume consumables, equip armor.
	switch def.Category {
	case CategoryConsumable:
		g.sink.ConsumeItem(item.InstanceID)
	case CategoryArmor:
		g.sink.EquipItem(item.InstanceID, EquipChest)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawFrame(g, screen)
}

func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	if outsideW > 0 && outsideH > 0 {
		g.canvasW, g.canvasH = outsideW, outsideH
	}
	return g.canvasW, g.canvasH
}

// runGame owns the Ebiten main loop. It returns when the window closes.
func runGame(g *Game) {
	ebiten.SetWindowTitle("Emberwild")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		logError("game loop: %v", err)
	}
}
