package main

// Input/interaction state machine. Raw key and mouse state is sampled into a
// controlsSample once per frame (game.go); this file turns samples into
// discrete actions. Keeping the logic off the Ebiten API lets tests drive it
// directly.

type controlsSample struct {
	MoveX, MoveY float64
	Sprint       bool

	InteractDown     bool // hold-to-interact key held this frame
	InteractPressed  bool // edge: went down this frame
	InteractReleased bool // edge: went up this frame

	SwingPressed bool
	CursorWorld  Vec2
}

// modalState mirrors which UI surfaces currently swallow global input.
type modalState struct {
	ChatOpen      bool
	InventoryOpen bool
	SearchFocused bool
}

func (m modalState) blocksGameInput() bool {
	return m.ChatOpen || m.InventoryOpen || m.SearchFocused
}

type holdTargetKind uint8

const (
	holdNone holdTargetKind = iota
	holdResource
	holdCorpse
	holdStash
	holdSleepingBag
)

func (k holdTargetKind) reducerName() string {
	switch k {
	case holdResource:
		return "resource"
	case holdCorpse:
		return "corpse"
	case holdStash:
		return "stash"
	case holdSleepingBag:
		return "sleeping_bag"
	}
	return "none"
}

// inputController owns the hold-to-interact and swing windows. All timing is
// wall-clock milliseconds so behavior is stable under variable frame rate.
type inputController struct {
	holdKind    holdTargetKind
	holdID      uint64
	holdStartMs float64
	holdFired   bool

	swingUntilMs    float64
	swingCooldownMs float64

	sink *intentSink
}

func newInputController(sink *intentSink) *inputController {
	return &inputController{sink: sink}
}

func (ic *inputController) Holding() bool { return ic.holdKind != holdNone }

// HoldProgress is the fill fraction of the progress ring, clamped to [0,1].
func (ic *inputController) HoldProgress(nowMs float64) float64 {
	if ic.holdKind == holdNone {
		return 0
	}
	return clamp((nowMs-ic.holdStartMs)/cfg.HoldDurationMs, 0, 1)
}

func (ic *inputController) HoldTarget() (holdTargetKind, uint64) {
	return ic.holdKind, ic.holdID
}

func (ic *inputController) Swinging(nowMs float64) bool {
	return nowMs < ic.swingUntilMs
}

// pickHoldTarget chooses which category a fresh hold binds to, preferring the
// richer interactions over plain resource harvesting.
func pickHoldTarget(t interactionTargets) (holdTargetKind, uint64) {
	switch {
	case t.Corpse.OK:
		return holdCorpse, t.Corpse.ID
	case t.Stash.OK:
		return holdStash, t.Stash.ID
	case t.SleepingBag.OK:
		return holdSleepingBag, t.SleepingBag.ID
	case t.Resource.OK:
		return holdResource, t.Resource.ID
	}
	return holdNone, 0
}

// Process advances the state machine one frame. Modal UI cancels any hold in
// flight and blocks new actions entirely; movement is still zeroed out so the
// player stops walking when a panel grabs focus.
func (ic *inputController) Process(nowMs float64, in controlsSample, modal modalState, targets interactionTargets, local *PlayerState) {
	if modal.blocksGameInput() {
		ic.cancelHold()
		ic.sink.UpdateMovement(0, 0, false)
		return
	}
	if local == nil || local.IsDead {
		ic.cancelHold()
		return
	}

	// Movement is continuous-sampled, not edge-triggered.
	ic.sink.UpdateMovement(in.MoveX, in.MoveY, in.Sprint)

	// Hold-to-interact.
	if in.InteractPressed && ic.holdKind == holdNone {
		if kind, id := pickHoldTarget(targets); kind != holdNone {
			ic.holdKind = kind
			ic.holdID = id
			ic.holdStartMs = nowMs
			ic.holdFired = false
		}
	}
	if ic.holdKind != holdNone {
		// The bound target walking out of range abandons the hold; a ring
		// must never fill against a stale entity.
		if !ic.holdTargetStillValid(targets) {
			ic.cancelHold()
		} else if in.InteractReleased {
			ic.cancelHold()
		} else if in.InteractDown && !ic.holdFired && ic.HoldProgress(nowMs) >= 1 {
			ic.holdFired = true
			ic.sink.ConfirmInteraction(ic.holdKind.reducerName(), ic.holdID)
			playSound("interact")
			ic.cancelHold()
		}
	}

	// Swing, gated on a cooldown window.
	if in.SwingPressed && nowMs >= ic.swingCooldownMs {
		ic.swingUntilMs = nowMs + cfg.SwingDurationMs
		ic.swingCooldownMs = nowMs + cfg.SwingCooldownMs
		ic.sink.Swing(in.CursorWorld.X, in.CursorWorld.Y)
		playSound("swing")
	}
}

func (ic *inputController) holdTargetStillValid(targets interactionTargets) bool {
	switch ic.holdKind {
	case holdResource:
		return targets.Resource.OK && targets.Resource.ID == ic.holdID
	case holdCorpse:
		return targets.Corpse.OK && targets.Corpse.ID == ic.holdID
	case holdStash:
		return targets.Stash.OK && targets.Stash.ID == ic.holdID
	case holdSleepingBag:
		return targets.SleepingBag.OK && targets.SleepingBag.ID == ic.holdID
	}
	return false
}

func (ic *inputController) cancelHold() {
	ic.holdKind = holdNone
	ic.holdID = 0
	ic.holdFired = false
}
