package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Frame composition. Pass order is load-bearing: the night mask covers the
// world layers but not labels, the hold ring or the UI, which draw above the
// darkness so they stay legible at peak night; glows blend additively on top
// of the mask.

var groundColor = color.RGBA{58, 94, 50, 255}

type framePass struct {
	name string
	draw func(g *Game, screen *ebiten.Image)
}

var framePasses = []framePass{
	{"ground", drawGround},
	{"shadows", drawShadows},
	{"groundItems", drawGroundItems},
	{"entities", func(g *Game, s *ebiten.Image) { drawEntities(g, s, g.nowMs()) }},
	{"particles", drawParticles},
	{"placementPreview", drawPlacementPreview},
	{"nightMask", func(g *Game, s *ebiten.Image) { g.night.drawMask(s, g.overlay, g.lights) }},
	{"worldLabels", drawWorldLabels},
	{"holdRing", func(g *Game, s *ebiten.Image) { drawHoldRing(g, s, g.nowMs()) }},
	{"lightGlows", func(g *Game, s *ebiten.Image) { g.night.drawGlows(s, g.lights) }},
	{"uiRegions", func(g *Game, _ *ebiten.Image) { g.regions.Clear() }},
	{"minimap", drawMinimap},
	{"hotbar", drawHotbar},
	{"inventoryPanel", drawInventoryPanel},
	{"containerPanel", drawContainerPanel},
	{"hudBars", func(g *Game, s *ebiten.Image) { drawHUDBars(s, g.snap.local) }},
	{"hoverNames", func(g *Game, s *ebiten.Image) { drawHoverNames(g, s, g.nowMs()) }},
	{"dragGhost", drawDragGhost},
	{"loading", drawLoadingIndicator},
	{"banner", func(_ *Game, s *ebiten.Image) { drawBanner(s) }},
	{"debug", func(g *Game, s *ebiten.Image) {
		if debugLoggingEnabled() {
			drawDebugOverlay(g, s)
		}
	}},
}

func drawFrame(g *Game, screen *ebiten.Image) {
	for _, p := range framePasses {
		p.draw(g, screen)
	}
}

// drawLoadingIndicator reports asset completion state until the sprite cache
// has been fully published.
func drawLoadingIndicator(g *Game, screen *ebiten.Image) {
	if spritesReady() {
		return
	}
	drawLabel(screen, "loading assets...", 12, float64(g.canvasH-40))
}

// drawSprite draws a named sprite centered on a screen point, or a flat
// placeholder rect while the sprite is still loading.
func drawSprite(screen *ebiten.Image, name string, at Vec2, w, h float64, fallback color.RGBA) {
	img := spriteByName(name)
	if img == nil {
		vector.DrawFilledRect(screen,
			float32(at.X-w/2), float32(at.Y-h/2), float32(w), float32(h), fallback, false)
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = drawFilter
	bw := float64(img.Bounds().Dx())
	bh := float64(img.Bounds().Dy())
	op.GeoM.Scale(w/bw, h/bh)
	op.GeoM.Translate(at.X-w/2, at.Y-h/2)
	screen.DrawImage(img, op)
}

func drawGround(g *Game, screen *ebiten.Image) {
	screen.Fill(groundColor)
	tile := spriteByName("tile_grass")
	if tile == nil {
		return
	}
	x0, y0, x1, y1 := tileRange(g.viewport)
	ts := cfg.TileSize
	bw := float64(tile.Bounds().Dx())
	bh := float64(tile.Bounds().Dy())
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			op := &ebiten.DrawImageOptions{}
			op.Filter = drawFilter
			op.GeoM.Scale(ts/bw, ts/bh)
			op.GeoM.Translate(float64(tx)*ts+g.camera.X, float64(ty)*ts+g.camera.Y)
			screen.DrawImage(tile, op)
		}
	}
}

func drawShadows(g *Game, screen *ebiten.Image) {
	shadow := color.RGBA{0, 0, 0, 60}
	ellipse := func(p Vec2, r float32) {
		s := worldToScreen(p, g.camera)
		vector.DrawFilledCircle(screen, float32(s.X), float32(s.Y)+4, r, shadow, false)
	}
	for _, r := range g.snap.resources {
		if !g.viewport.contains(r.Pos) {
			continue
		}
		ellipse(r.Pos, 14)
	}
	for _, p := range g.snap.players {
		if p.IsDead || !g.viewport.contains(p.Pos) {
			continue
		}
		ellipse(p.Pos, 10)
	}
}

// drawGroundItems renders flat world objects that never occlude anything:
// dropped item stacks and sleeping bags.
func drawGroundItems(g *Game, screen *ebiten.Image) {
	for _, b := range g.snap.bags {
		if b.IsDestroyed || !g.viewport.contains(b.Pos) {
			continue
		}
		s := worldToScreen(b.Pos, g.camera)
		drawSprite(screen, "sleeping_bag", s, 36, 20, color.RGBA{90, 60, 120, 255})
	}
	for _, d := range g.snap.dropped {
		if !g.viewport.contains(d.Pos) {
			continue
		}
		s := worldToScreen(d.Pos, g.camera)
		icon := "item_unknown"
		if def, ok := g.snap.itemDefs[d.ItemDefID]; ok {
			icon = def.Icon
		}
		drawSprite(screen, icon, s, 18, 18, color.RGBA{200, 180, 90, 255})
		if d.Quantity > 1 {
			drawLabel(screen, fmt.Sprintf("x%d", d.Quantity), s.X+8, s.Y+4)
		}
	}
}

func resourceSpriteName(k ResourceKind) string {
	switch k {
	case ResourceTree:
		return "tree"
	case ResourceStone:
		return "stone"
	case ResourceMushroom:
		return "mushroom"
	case ResourceCorn:
		return "corn"
	case ResourcePumpkin:
		return "pumpkin"
	case ResourceHemp:
		return "hemp"
	}
	return "item_unknown"
}

// drawEntities Y-sorts everything with vertical mass: players, resources,
// campfires, boxes, stashes and corpses.
func drawEntities(g *Game, screen *ebiten.Image, nowMs float64) {
	nowWallMs := time.Now().UnixMilli()
	ds := make([]drawable, 0, 64)

	for _, r := range g.snap.resources {
		if !g.viewport.contains(r.Pos) {
			continue
		}
		r := r
		depleted := r.RespawnAtMs != 0 && r.RespawnAtMs > nowWallMs
		ds = append(ds, drawable{SortY: r.Pos.Y, Draw: func() {
			s := worldToScreen(r.Pos, g.camera)
			name := resourceSpriteName(r.Kind)
			if depleted {
				drawSprite(screen, name+"_depleted", s, 28, 20, color.RGBA{80, 64, 44, 255})
				return
			}
			drawSprite(screen, name, Vec2{s.X, s.Y - 14}, 44, 56, color.RGBA{46, 110, 52, 255})
		}})
	}

	for _, c := range g.snap.campfires {
		if !g.viewport.contains(c.Pos) {
			continue
		}
		c := c
		ds = append(ds, drawable{SortY: c.Pos.Y, Draw: func() {
			s := worldToScreen(c.Pos, g.camera)
			name := "campfire"
			if c.IsBurning {
				name = "campfire_lit"
			}
			drawSprite(screen, name, s, 32, 26, color.RGBA{120, 70, 40, 255})
		}})
	}

	for _, b := range g.snap.boxes {
		if b.IsDestroyed || !g.viewport.contains(b.Pos) {
			continue
		}
		b := b
		ds = append(ds, drawable{SortY: b.Pos.Y, Draw: func() {
			s := worldToScreen(b.Pos, g.camera)
			drawSprite(screen, "storage_box", s, 34, 28, color.RGBA{140, 100, 55, 255})
		}})
	}

	for _, st := range g.snap.stashes {
		if !g.viewport.contains(st.Pos) {
			continue
		}
		st := st
		ds = append(ds, drawable{SortY: st.Pos.Y, Draw: func() {
			s := worldToScreen(st.Pos, g.camera)
			if st.IsHidden {
				// a buried stash reads as a faint mound
				vector.DrawFilledCircle(screen, float32(s.X), float32(s.Y), 7, color.RGBA{70, 58, 40, 90}, false)
				return
			}
			drawSprite(screen, "stash", s, 22, 16, color.RGBA{96, 78, 50, 255})
		}})
	}

	for _, c := range g.snap.corpses {
		if !g.viewport.contains(c.Pos) {
			continue
		}
		c := c
		ds = append(ds, drawable{SortY: c.Pos.Y, Draw: func() {
			s := worldToScreen(c.Pos, g.camera)
			drawSprite(screen, "corpse", s, 36, 18, color.RGBA{110, 100, 100, 255})
		}})
	}

	for _, p := range g.snap.players {
		if p.IsDead || !g.viewport.contains(p.Pos) {
			continue
		}
		p := p
		isLocal := p.Identity == g.snap.localIdentity
		ds = append(ds, drawable{SortY: p.Pos.Y, Draw: func() {
			drawPlayer(g, screen, p, isLocal, nowMs)
		}})
	}

	sortDrawables(ds)
	for _, d := range ds {
		d.Draw()
	}
}

func drawPlayer(g *Game, screen *ebiten.Image, p PlayerState, isLocal bool, nowMs float64) {
	s := worldToScreen(p.Pos, g.camera)
	base := color.RGBA{80, 120, 180, 255}
	if isLocal {
		base = color.RGBA{90, 160, 210, 255}
	}
	drawSprite(screen, "player", Vec2{s.X, s.Y - cfg.SpriteH/2 + 8}, cfg.SpriteW, cfg.SpriteH, base)

	if p.IsTorchLit {
		drawSprite(screen, "torch", Vec2{s.X + 12, s.Y - 22}, 10, 22, color.RGBA{230, 160, 60, 255})
	}

	// Swing overlay for the local player only; remote swings are not
	// replicated at this granularity.
	if isLocal && g.input.Swinging(nowMs) {
		vector.StrokeCircle(screen, float32(s.X), float32(s.Y-14), 20, 2.5, color.RGBA{255, 255, 255, 140}, true)
	}
}

func particleColor(p particle) color.RGBA {
	a := clamp(p.Alpha, 0, 1)
	return color.RGBA{
		R: uint8(float64(p.Color.R) * a),
		G: uint8(float64(p.Color.G) * a),
		B: uint8(float64(p.Color.B) * a),
		A: uint8(255 * a),
	}
}

func drawParticles(g *Game, screen *ebiten.Image) {
	for _, p := range g.particles.particles {
		if !g.viewport.contains(p.Pos) {
			continue
		}
		s := worldToScreen(p.Pos, g.camera)
		vector.DrawFilledCircle(screen, float32(s.X), float32(s.Y), float32(p.Size), particleColor(p), false)
	}
}

// drawWorldLabels renders interaction prompts near their targets and respawn
// countdowns over depleted resources.
func drawWorldLabels(g *Game, screen *ebiten.Image) {
	nowWallMs := time.Now().UnixMilli()
	for _, r := range g.snap.resources {
		if r.RespawnAtMs == 0 || r.RespawnAtMs <= nowWallMs || !g.viewport.contains(r.Pos) {
			continue
		}
		if msg := respawnLabel(r.RespawnAtMs - nowWallMs); msg != "" {
			s := worldToScreen(r.Pos, g.camera)
			drawLabel(screen, msg, s.X-28, s.Y-28)
		}
	}

	prompt := func(pos Vec2, msg string) {
		s := worldToScreen(pos, g.camera)
		drawLabel(screen, msg, s.X-24, s.Y-42)
	}
	t := g.targets
	if t.Resource.OK {
		if pos, ok := g.resourcePos(t.Resource.ID); ok {
			prompt(pos, "hold [F] to harvest")
		}
	}
	if t.Campfire.OK {
		if pos, ok := g.campfirePos(t.Campfire.ID); ok {
			prompt(pos, "[E] open fire")
		}
	}
	if t.Box.OK {
		if pos, ok := g.boxPos(t.Box.ID); ok {
			msg := "[E] open box"
			if t.ClosestBoxEmpty {
				msg = "[E] open box (empty)"
			}
			prompt(pos, msg)
		}
	}
	if t.DroppedItem.OK {
		if d, ok := g.droppedByID(t.DroppedItem.ID); ok {
			prompt(d.Pos, pickupPrompt(&g.snap, d))
		}
	}
	if t.Corpse.OK {
		if pos, ok := g.corpsePos(t.Corpse.ID); ok {
			prompt(pos, "hold [F] to loot")
		}
	}
	if t.Stash.OK {
		if pos, hidden, ok := g.stashPos(t.Stash.ID); ok {
			if hidden {
				prompt(pos, "hold [F] to dig up")
			} else {
				prompt(pos, "[E] open stash")
			}
		}
	}
	if t.SleepingBag.OK {
		if pos, ok := g.bagPos(t.SleepingBag.ID); ok {
			prompt(pos, "hold [F] to pick up")
		}
	}
}

func (g *Game) resourcePos(id uint64) (Vec2, bool) {
	for _, r := range g.snap.resources {
		if r.ID == id {
			return r.Pos, true
		}
	}
	return Vec2{}, false
}

func (g *Game) campfirePos(id uint64) (Vec2, bool) {
	for _, c := range g.snap.campfires {
		if c.ID == id {
			return c.Pos, true
		}
	}
	return Vec2{}, false
}

func (g *Game) boxPos(id uint64) (Vec2, bool) {
	for _, b := range g.snap.boxes {
		if b.ID == id {
			return b.Pos, true
		}
	}
	return Vec2{}, false
}

func (g *Game) droppedByID(id uint64) (DroppedItem, bool) {
	for _, d := range g.snap.dropped {
		if d.ID == id {
			return d, true
		}
	}
	return DroppedItem{}, false
}

// pickupPrompt names the targeted dropped item when its definition is known.
func pickupPrompt(snap *worldSnapshot, d DroppedItem) string {
	if def, ok := snap.itemDefs[d.ItemDefID]; ok {
		return "[E] pick up " + displayName(def)
	}
	return "[E] pick up"
}

func (g *Game) corpsePos(id uint64) (Vec2, bool) {
	for _, c := range g.snap.corpses {
		if c.ID == id {
			return c.Pos, true
		}
	}
	return Vec2{}, false
}

func (g *Game) stashPos(id uint64) (Vec2, bool, bool) {
	for _, s := range g.snap.stashes {
		if s.ID == id {
			return s.Pos, s.IsHidden, true
		}
	}
	return Vec2{}, false, false
}

func (g *Game) bagPos(id uint64) (Vec2, bool) {
	for _, b := range g.snap.bags {
		if b.ID == id {
			return b.Pos, true
		}
	}
	return Vec2{}, false
}

func drawPlacementPreview(g *Game, screen *ebiten.Image) {
	payload, active := g.placement.Payload()
	if !active {
		return
	}
	x, y := ebiten.CursorPosition()
	at := Vec2{float64(x), float64(y)}
	img := spriteByName(payload.Icon)
	tint := color.RGBA{120, 255, 120, 130}
	if g.placement.TooFar() {
		tint = color.RGBA{255, 90, 90, 130}
	}
	if img == nil {
		vector.DrawFilledRect(screen, float32(at.X-16), float32(at.Y-12), 32, 24, tint, false)
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = drawFilter
	op.ColorScale.Scale(float32(tint.R)/255, float32(tint.G)/255, float32(tint.B)/255, float32(tint.A)/255)
	bw := float64(img.Bounds().Dx())
	bh := float64(img.Bounds().Dy())
	op.GeoM.Scale(32/bw, 24/bh)
	op.GeoM.Translate(at.X-16, at.Y-12)
	screen.DrawImage(img, op)
}

var strokeWhite *ebiten.Image

func strokeSource() *ebiten.Image {
	if strokeWhite == nil {
		strokeWhite = ebiten.NewImage(3, 3)
		strokeWhite.Fill(color.White)
	}
	return strokeWhite
}

// drawHoldRing renders the hold-to-interact progress arc above the bound
// target. Drawn after the night mask so it stays legible in the dark.
func drawHoldRing(g *Game, screen *ebiten.Image, nowMs float64) {
	if !g.input.Holding() {
		return
	}
	progress := g.input.HoldProgress(nowMs)
	kind, id := g.input.HoldTarget()

	var pos Vec2
	var ok bool
	switch kind {
	case holdResource:
		pos, ok = g.resourcePos(id)
	case holdCorpse:
		pos, ok = g.corpsePos(id)
	case holdStash:
		pos, _, ok = g.stashPos(id)
	case holdSleepingBag:
		pos, ok = g.bagPos(id)
	}
	if !ok {
		return
	}
	s := worldToScreen(pos, g.camera)
	cx, cy := float32(s.X), float32(s.Y-30)
	const radius = 13.0

	vector.StrokeCircle(screen, cx, cy, radius, 3, color.RGBA{0, 0, 0, 120}, true)
	if progress <= 0 {
		return
	}

	var path vector.Path
	start := float32(-math.Pi / 2)
	end := start + float32(progress*2*math.Pi)
	path.Arc(cx, cy, radius, start, end, vector.Clockwise)
	vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: 3})
	for i := range vs {
		vs[i].ColorR = 1
		vs[i].ColorG = 0.85
		vs[i].ColorB = 0.3
		vs[i].ColorA = 1
	}
	screen.DrawTriangles(vs, is, strokeSource().SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// --- minimap ---

func drawMinimap(g *Game, screen *ebiten.Image) {
	if !gs.ShowMinimap {
		return
	}
	r := g.minimapRect()
	box := screen.SubImage(r).(*ebiten.Image)
	ox := float32(r.Min.X)
	oy := float32(r.Min.Y)
	size := float32(cfg.MinimapSize)

	vector.DrawFilledRect(box, ox, oy, size, size, color.RGBA{16, 22, 16, 215}, false)
	vector.StrokeRect(box, ox, oy, size, size, 1, color.RGBA{140, 140, 140, 255}, false)

	local := g.snap.local
	dot := func(world Vec2, radius float32, col color.RGBA) {
		q := g.minimap.worldToMini(world, local)
		if q.X < 0 || q.Y < 0 || q.X > float64(size) || q.Y > float64(size) {
			return
		}
		vector.DrawFilledCircle(box, ox+float32(q.X), oy+float32(q.Y), radius, col, false)
	}

	for _, c := range g.snap.campfires {
		col := color.RGBA{120, 90, 60, 255}
		if c.IsBurning {
			col = color.RGBA{255, 150, 40, 255}
		}
		dot(c.Pos, 2, col)
	}
	for _, b := range g.snap.boxes {
		if !b.IsDestroyed {
			dot(b.Pos, 2, color.RGBA{170, 130, 70, 255})
		}
	}
	for _, b := range g.snap.bags {
		if !b.IsDestroyed && b.PlacedBy == g.snap.localIdentity {
			dot(b.Pos, 3, color.RGBA{90, 140, 255, 255})
		}
	}
	for _, p := range g.snap.players {
		switch {
		case p.IsDead:
		case p.Identity == g.snap.localIdentity:
			dot(p.Pos, 3, color.RGBA{255, 255, 255, 255})
		default:
			dot(p.Pos, 2, color.RGBA{255, 80, 80, 255})
		}
	}
	if g.minimap.pin != nil {
		dot(*g.minimap.pin, 3, color.RGBA{255, 230, 60, 255})
	}
	if local != nil && local.IsDead {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(r.Min.X)+8, float64(r.Min.Y)+6)
		op.ColorScale.ScaleWithColor(color.RGBA{255, 120, 120, 255})
		text.Draw(screen, "click a bag to respawn", hudFace, op)
	}
}

// --- inventory UI ---

const (
	slotPx    = 40
	slotPad   = 6
	invCols   = 6
	invRows   = 4
	hotbarLen = 6
)

func drawSlot(g *Game, screen *ebiten.Image, rect image.Rectangle, ref slotRef, highlight bool) {
	g.regions.Register(rect, ref)
	bg := color.RGBA{30, 30, 30, 200}
	if highlight {
		bg = color.RGBA{70, 70, 40, 220}
	}
	vector.DrawFilledRect(screen, float32(rect.Min.X), float32(rect.Min.Y),
		float32(rect.Dx()), float32(rect.Dy()), bg, false)
	vector.StrokeRect(screen, float32(rect.Min.X), float32(rect.Min.Y),
		float32(rect.Dx()), float32(rect.Dy()), 1, color.RGBA{110, 110, 110, 255}, false)

	item, ok := g.snap.itemAt(ref)
	if !ok {
		return
	}
	// The dragged stack renders at the cursor, not in its slot.
	if payload, dragging := g.drag.Payload(); dragging && payload.Item.InstanceID == item.InstanceID && payload.SplitQuantity == 0 {
		return
	}
	icon := "item_unknown"
	if def, defOK := g.snap.itemDefs[item.ItemDefID]; defOK {
		icon = def.Icon
	}
	center := Vec2{float64(rect.Min.X + rect.Dx()/2), float64(rect.Min.Y + rect.Dy()/2)}
	drawSprite(screen, icon, center, 28, 28, color.RGBA{180, 160, 90, 255})
	if item.Quantity > 1 {
		drawLabel(screen, fmt.Sprintf("%d", item.Quantity), float64(rect.Max.X-14), float64(rect.Max.Y-16))
	}
}

func drawHotbar(g *Game, screen *ebiten.Image) {
	totalW := hotbarLen*slotPx + (hotbarLen-1)*slotPad
	x0 := (g.canvasW - totalW) / 2
	y0 := g.canvasH - slotPx - 10
	for i := 0; i < hotbarLen; i++ {
		x := x0 + i*(slotPx+slotPad)
		rect := image.Rect(x, y0, x+slotPx, y0+slotPx)
		drawSlot(g, screen, rect, slotRef{Kind: slotHotbar, Index: i}, i == g.hotbarSlot)
		drawLabel(screen, fmt.Sprintf("%d", i+1), float64(x+3), float64(y0+2))
	}
}

func drawInventoryPanel(g *Game, screen *ebiten.Image) {
	if !g.modal.InventoryOpen {
		return
	}
	panelW := invCols*(slotPx+slotPad) + slotPad
	panelH := invRows*(slotPx+slotPad) + slotPad + 20
	x0 := (g.canvasW - panelW) / 2
	y0 := (g.canvasH - panelH) / 2
	vector.DrawFilledRect(screen, float32(x0-8), float32(y0-24), float32(panelW+16), float32(panelH+32), color.RGBA{20, 20, 24, 230}, false)
	drawLabel(screen, "Inventory", float64(x0), float64(y0-20))

	for i := 0; i < invCols*invRows; i++ {
		col := i % invCols
		row := i / invCols
		x := x0 + slotPad + col*(slotPx+slotPad)
		y := y0 + slotPad + row*(slotPx+slotPad)
		drawSlot(g, screen, image.Rect(x, y, x+slotPx, y+slotPx), slotRef{Kind: slotInventory, Index: i}, false)
	}

	// Equipment column to the right of the grid.
	equipLabels := []string{"head", "chest", "legs", "feet", "hands", "back"}
	ex := x0 + panelW + 16
	for i, lbl := range equipLabels {
		y := y0 + i*(slotPx+slotPad)
		drawSlot(g, screen, image.Rect(ex, y, ex+slotPx, y+slotPx), slotRef{Kind: slotEquip, Index: i}, false)
		drawLabel(screen, lbl, float64(ex+slotPx+4), float64(y+12))
	}
}

func containerSlotCount(kind ContainerKind) int {
	switch kind {
	case ContainerCampfire:
		return campfireSlotCount
	case ContainerBox:
		return boxSlotCount
	case ContainerStash:
		return stashSlotCount
	case ContainerCorpse:
		return corpseSlotCount
	}
	return 0
}

func containerTitle(kind ContainerKind) string {
	switch kind {
	case ContainerCampfire:
		return "Camp Fire"
	case ContainerBox:
		return "Storage Box"
	case ContainerStash:
		return "Stash"
	case ContainerCorpse:
		return "Corpse"
	}
	return "Container"
}

func drawContainerPanel(g *Game, screen *ebiten.Image) {
	if !g.panel.Open {
		return
	}
	count := containerSlotCount(g.panel.Kind)
	cols := 6
	rows := (count + cols - 1) / cols
	panelW := cols*(slotPx+slotPad) + slotPad
	panelH := rows*(slotPx+slotPad) + slotPad
	x0 := (g.canvasW - panelW) / 2
	y0 := g.canvasH/2 + 40
	vector.DrawFilledRect(screen, float32(x0-8), float32(y0-24), float32(panelW+16), float32(panelH+32), color.RGBA{24, 20, 18, 230}, false)
	drawLabel(screen, containerTitle(g.panel.Kind), float64(x0), float64(y0-20))

	for i := 0; i < count; i++ {
		col := i % cols
		row := i / cols
		x := x0 + slotPad + col*(slotPx+slotPad)
		y := y0 + slotPad + row*(slotPx+slotPad)
		ref := slotRef{Kind: slotContainer, Index: i, ContainerKind: g.panel.Kind, ContainerID: g.panel.ID}
		drawSlot(g, screen, image.Rect(x, y, x+slotPx, y+slotPx), ref, false)
	}

	switch g.panel.Kind {
	case ContainerCampfire:
		if c, ok := g.campfireByID(g.panel.ID); ok {
			lbl := "[T] light fire"
			if c.IsBurning {
				lbl = "[T] extinguish"
			}
			drawLabel(screen, lbl, float64(x0), float64(y0+panelH+8))
		}
	case ContainerStash:
		if _, hidden, ok := g.stashByID(g.panel.ID); ok && !hidden {
			drawLabel(screen, "[T] bury", float64(x0), float64(y0+panelH+8))
		}
	}
}

func (g *Game) campfireByID(id uint64) (Campfire, bool) {
	for _, c := range g.snap.campfires {
		if c.ID == id {
			return c, true
		}
	}
	return Campfire{}, false
}

func (g *Game) stashByID(id uint64) (Stash, bool, bool) {
	for _, s := range g.snap.stashes {
		if s.ID == id {
			return s, s.IsHidden, true
		}
	}
	return Stash{}, false, false
}

func drawHoverNames(g *Game, screen *ebiten.Image, nowMs float64) {
	for _, id := range g.hover.Active(nowMs) {
		for _, p := range g.snap.players {
			if p.Identity != id || p.IsDead {
				continue
			}
			s := worldToScreen(p.Pos, g.camera)
			name := p.Name
			if name == "" {
				name = "survivor"
			}
			drawLabel(screen, name, s.X-float64(len(name))*3, s.Y-cfg.SpriteH+4)
		}
	}
}

func drawDragGhost(g *Game, screen *ebiten.Image) {
	payload, ok := g.drag.Payload()
	if !ok || !g.drag.Dragging() {
		return
	}
	x, y := ebiten.CursorPosition()
	icon := "item_unknown"
	if def, defOK := g.snap.itemDefs[payload.Item.ItemDefID]; defOK {
		icon = def.Icon
	}
	drawSprite(screen, icon, Vec2{float64(x), float64(y)}, 28, 28, color.RGBA{180, 160, 90, 180})
	qty := payload.Item.Quantity
	if payload.SplitQuantity > 0 {
		qty = payload.SplitQuantity
	}
	if qty > 1 {
		drawLabel(screen, fmt.Sprintf("%d", qty), float64(x+10), float64(y+8))
	}
}

func drawDebugOverlay(g *Game, screen *ebiten.Image) {
	fire, smoke, torch, burst := g.particles.counts()
	msg := fmt.Sprintf("tps %.0f fps %.0f gen %d overlay %s p[f%d s%d t%d b%d]",
		ebiten.ActualTPS(), ebiten.ActualFPS(), g.snap.generation, g.overlay, fire, smoke, torch, burst)
	drawLabel(screen, msg, 12, float64(g.canvasH-18))
}
