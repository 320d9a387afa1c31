package main

import (
	"image/color"
	"math/rand"
	"strconv"
)

// Particle simulation for campfire smoke/fire, torch glow and the damage-zone
// burst cue. Emission is accumulator-driven so the spawn rate is stable under
// variable frame times; timers are wall-clock, never frame-count.

type particleKind uint8

const (
	particleFire particleKind = iota
	particleSmoke
	particleTorch
	particleBurst
)

type particle struct {
	ID        uint64
	Kind      particleKind
	Pos       Vec2
	Vel       Vec2
	LifeMs    float64
	RemainMs  float64
	Size      float64
	Alpha     float64
	Color     color.RGBA
	sourceKey string
}

const (
	referenceFrameMs = 1000.0 / 60.0
	particleAlphaMin = 0.01
	smokeLingerMs    = 5000.0

	fireRatePerFrame  = 0.28
	smokeRatePerFrame = 0.12
	torchRatePerFrame = 0.18
	burstRatePerFrame = 0.35
)

// emitterState is the per-source bookkeeping: one fractional accumulator per
// particle type plus the smoke linger deadline.
type emitterState struct {
	fireAcc  float64
	smokeAcc float64
	torchAcc float64
	burstAcc float64

	wasActive     bool
	lingerUntilMs float64
}

// emissionSource describes one particle-producing entity for this frame.
type emissionSource struct {
	Key    string
	Pos    Vec2
	Kind   particleKind // particleFire for campfires, particleTorch for torches
	Active bool
	Burst  bool // a player stands inside the damage radius
}

type particleSystem struct {
	particles []particle
	emitters  map[string]*emitterState
	nextID    uint64
	rng       *rand.Rand
}

func newParticleSystem() *particleSystem {
	return &particleSystem{
		emitters: make(map[string]*emitterState),
		rng:      rand.New(rand.NewSource(0xca3f)),
	}
}

// Update advances the simulation by dtMs. nowMs is wall-clock milliseconds;
// sources is this frame's emitter set derived from the snapshot. Sources
// missing from the set have their emitter state dropped immediately.
func (ps *particleSystem) Update(nowMs, dtMs float64, sources []emissionSource) {
	if dtMs < 0 {
		dtMs = 0
	}
	ndt := dtMs / referenceFrameMs

	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		seen[src.Key] = struct{}{}
		em := ps.emitters[src.Key]
		if em == nil {
			em = &emitterState{wasActive: src.Active}
			ps.emitters[src.Key] = em
		}

		if em.wasActive && !src.Active {
			// Fire cuts out instantly; smoke dissipates over the linger
			// window instead of vanishing.
			em.lingerUntilMs = nowMs + smokeLingerMs
		}
		em.wasActive = src.Active

		switch src.Kind {
		case particleFire:
			if src.Active {
				em.fireAcc += fireRatePerFrame * ndt
				for em.fireAcc >= 1 {
					em.fireAcc--
					ps.spawnFire(src.Key, src.Pos)
				}
			}
			smokeActive := src.Active || nowMs < em.lingerUntilMs
			if smokeActive {
				em.smokeAcc += smokeRatePerFrame * ndt
				for em.smokeAcc >= 1 {
					em.smokeAcc--
					ps.spawnSmoke(src.Key, src.Pos)
				}
			}
			if src.Active && src.Burst {
				em.burstAcc += burstRatePerFrame * ndt
				for em.burstAcc >= 1 {
					em.burstAcc--
					ps.spawnBurst(src.Key, src.Pos)
				}
			}
		case particleTorch:
			if src.Active {
				em.torchAcc += torchRatePerFrame * ndt
				for em.torchAcc >= 1 {
					em.torchAcc--
					ps.spawnTorch(src.Key, src.Pos)
				}
			}
		}
	}

	// Sources gone from replicated state drop all their emitter bookkeeping.
	for key := range ps.emitters {
		if _, ok := seen[key]; !ok {
			delete(ps.emitters, key)
		}
	}

	ps.age(dtMs, ndt)
}

func (ps *particleSystem) age(dtMs, ndt float64) {
	kept := ps.particles[:0]
	for _, p := range ps.particles {
		p.RemainMs -= dtMs
		if p.RemainMs <= 0 {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(ndt))
		switch p.Kind {
		case particleFire, particleTorch, particleBurst:
			p.Alpha = p.RemainMs / p.LifeMs
		case particleSmoke:
			p.Size += 0.045 * ndt
			// rising smoke decelerates toward a hang
			p.Vel.Y *= 1 - 0.012*ndt
			p.Alpha = (p.RemainMs / p.LifeMs) * 0.5
		}
		if p.Alpha < particleAlphaMin {
			continue
		}
		kept = append(kept, p)
	}
	ps.particles = kept
}

func (ps *particleSystem) spawn(p particle) {
	ps.nextID++
	p.ID = ps.nextID
	p.RemainMs = p.LifeMs
	ps.particles = append(ps.particles, p)
}

func (ps *particleSystem) jitter(scale float64) float64 {
	return (ps.rng.Float64()*2 - 1) * scale
}

func (ps *particleSystem) spawnFire(key string, pos Vec2) {
	ps.spawn(particle{
		Kind:      particleFire,
		Pos:       Vec2{pos.X + ps.jitter(5), pos.Y - 8 + ps.jitter(3)},
		Vel:       Vec2{ps.jitter(0.25), -0.6 - ps.rng.Float64()*0.5},
		LifeMs:    420 + ps.rng.Float64()*280,
		Size:      2.5 + ps.rng.Float64()*2,
		Alpha:     1,
		Color:     color.RGBA{R: 255, G: uint8(120 + ps.rng.Intn(90)), B: 30, A: 255},
		sourceKey: key,
	})
}

func (ps *particleSystem) spawnSmoke(key string, pos Vec2) {
	ps.spawn(particle{
		Kind:      particleSmoke,
		Pos:       Vec2{pos.X + ps.jitter(4), pos.Y - 16 + ps.jitter(3)},
		Vel:       Vec2{ps.jitter(0.18), -0.9 - ps.rng.Float64()*0.4},
		LifeMs:    2600 + ps.rng.Float64()*1400,
		Size:      3 + ps.rng.Float64()*2.5,
		Alpha:     0.5,
		Color:     color.RGBA{R: 120, G: 120, B: 120, A: 255},
		sourceKey: key,
	})
}

func (ps *particleSystem) spawnTorch(key string, pos Vec2) {
	ps.spawn(particle{
		Kind:      particleTorch,
		Pos:       Vec2{pos.X + 10 + ps.jitter(2), pos.Y - 26 + ps.jitter(2)},
		Vel:       Vec2{ps.jitter(0.2), -0.4 - ps.rng.Float64()*0.3},
		LifeMs:    280 + ps.rng.Float64()*180,
		Size:      1.8 + ps.rng.Float64()*1.4,
		Alpha:     1,
		Color:     color.RGBA{R: 255, G: uint8(150 + ps.rng.Intn(70)), B: 60, A: 255},
		sourceKey: key,
	})
}

// spawnBurst is the visually distinct damage-zone cue: solid dark motes
// popping off the fire while a player stands inside its hurt radius.
func (ps *particleSystem) spawnBurst(key string, pos Vec2) {
	ps.spawn(particle{
		Kind:      particleBurst,
		Pos:       Vec2{pos.X + ps.jitter(8), pos.Y - 6 + ps.jitter(4)},
		Vel:       Vec2{ps.jitter(0.9), -1.2 - ps.rng.Float64()*0.8},
		LifeMs:    360 + ps.rng.Float64()*180,
		Size:      2 + ps.rng.Float64()*1.2,
		Alpha:     1,
		Color:     color.RGBA{R: 40, G: 16, B: 10, A: 255},
		sourceKey: key,
	})
}

// collectEmissionSources derives this frame's emitter set from the snapshot.
func collectEmissionSources(snap *worldSnapshot) []emissionSource {
	srcs := make([]emissionSource, 0, len(snap.campfires)+len(snap.players))
	for _, c := range snap.campfires {
		burst := false
		if c.IsBurning {
			rr := cfg.CampfireDamageRange * cfg.CampfireDamageRange
			for _, p := range snap.players {
				if !p.IsDead && dist2(p.Pos, c.Pos) <= rr {
					burst = true
					break
				}
			}
		}
		srcs = append(srcs, emissionSource{
			Key:    campfireEmitterKey(c.ID),
			Pos:    c.Pos,
			Kind:   particleFire,
			Active: c.IsBurning,
			Burst:  burst,
		})
	}
	for _, p := range snap.players {
		srcs = append(srcs, emissionSource{
			Key:    torchEmitterKey(p.Identity),
			Pos:    p.Pos,
			Kind:   particleTorch,
			Active: !p.IsDead && p.IsTorchLit,
		})
	}
	return srcs
}

func campfireEmitterKey(id uint64) string    { return "campfire:" + strconv.FormatUint(id, 10) }
func torchEmitterKey(identity string) string { return "torch:" + identity }

// counts returns the live particle totals per kind, used by tests and the
// debug overlay.
func (ps *particleSystem) counts() (fire, smoke, torch, burst int) {
	for _, p := range ps.particles {
		switch p.Kind {
		case particleFire:
			fire++
		case particleSmoke:
			smoke++
		case particleTorch:
			torch++
		case particleBurst:
			burst++
		}
	}
	return
}
