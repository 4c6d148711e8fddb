// Package coordinator derives audio cues from game state transitions
// Each rule is a plain function of (previous, next, action); the coordinator
// dispatches their results as fire-and-forget playback and owns the shake timer
package coordinator

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/cubecue/clock"
	"github.com/lixenwraith/cubecue/core"
	"github.com/lixenwraith/cubecue/game"
	"github.com/lixenwraith/cubecue/status"
)

var tracer = otel.Tracer("github.com/lixenwraith/cubecue/coordinator")

// DefaultShakeInterval is the period of the repeating shake cue
const DefaultShakeInterval = 2 * time.Second

// Player is the set of playback verbs rules emit
type Player interface {
	Play(core.Sound) error
	Loop(core.Sound) error
	Stop(core.Sound) error
}

// Config wires the coordinator's collaborators
// Nil fields fall back to defaults except Player and Dictionary
type Config struct {
	Player        Player
	Dictionary    game.Dictionary
	Rand          Rand
	Clock         clock.Clock
	ShakeInterval time.Duration
	Music         []core.Sound // Stopped on game over, except GameOverMusicLoop
	Selection     SelectionSounds
}

// Stats counts shake timer transitions
type Stats struct {
	ShakeStarts  int
	ShakeCancels int
}

// Coordinator turns snapshot transitions into playback
type Coordinator struct {
	player   Player
	dict     game.Dictionary
	rnd      Rand
	clock    clock.Clock
	interval time.Duration
	music    []core.Sound
	sel      SelectionSounds

	session uuid.UUID
	effects *registry
	cues    sync.WaitGroup

	mu           sync.Mutex
	shakingSince time.Time

	metrics       *status.Registry
	mCues         *atomic.Int64
	mCueErrors    *atomic.Int64
	mShakeStarts  *atomic.Int64
	mShakeCancels *atomic.Int64
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// New creates a coordinator for one game session
func New(cfg Config) (*Coordinator, error) {
	if cfg.Player == nil {
		return nil, fmt.Errorf("coordinator: player required")
	}
	if cfg.Dictionary == nil {
		return nil, fmt.Errorf("coordinator: dictionary required")
	}

	c := &Coordinator{
		player:   cfg.Player,
		dict:     cfg.Dictionary,
		rnd:      cfg.Rand,
		clock:    cfg.Clock,
		interval: cfg.ShakeInterval,
		music:    cfg.Music,
		sel:      cfg.Selection,
		session:  uuid.New(),
		effects:  newRegistry(),
	}
	if c.rnd == nil {
		c.rnd = globalRand{}
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.interval <= 0 {
		c.interval = DefaultShakeInterval
	}
	if c.music == nil {
		c.music = core.AllMusic
	}

	c.metrics = status.NewRegistry()
	c.mCues = c.metrics.Ints.Get("coordinator.cues")
	c.mCueErrors = c.metrics.Ints.Get("coordinator.cue_errors")
	c.mShakeStarts = c.metrics.Ints.Get("coordinator.shake_starts")
	c.mShakeCancels = c.metrics.Ints.Get("coordinator.shake_cancels")
	return c, nil
}

// Session returns the id tagging this coordinator's logs and spans
func (c *Coordinator) Session() uuid.UUID {
	return c.session
}

// Handle evaluates every rule against one transition
// Never blocks on playback; failures are logged
func (c *Coordinator) Handle(prev, next game.Snapshot, action game.Action) {
	_, span := tracer.Start(context.Background(), "coordinator.Handle",
		trace.WithAttributes(
			attribute.String("session", c.session.String()),
			attribute.String("action", action.String()),
			attribute.String("mode", next.Mode.String()),
		))
	defer span.End()

	switch action {
	case game.ActionOnAppear:
		s, loop := introCue(next.Mode, next.IsDemo, c.rnd)
		c.fire(s, loop)
	case game.ActionConfirmRemoveCube:
		c.fire(core.CubeRemove, false)
	}

	if prev.SecondsPlayed != next.SecondsPlayed {
		for _, s := range countdownCues(next.Mode.Seconds(), next.SecondsPlayed) {
			c.fire(s, false)
		}
	}

	if !sameSelection(prev.Selection, next.Selection) {
		if s, ok := deselectCue(prev, next, action); ok {
			c.fire(s, false)
		}
		c.updateShake(prev, next)
		if c.sel != nil {
			if s, ok := c.sel.SelectionChanged(prev, next, c.dict); ok {
				c.fire(s, false)
			}
		}
	}

	if s, ok := playedWordCue(prev, next); ok {
		c.fire(s, false)
	}

	if !prev.GameOver && next.GameOver {
		span.AddEvent("game_over")
		c.gameOver()
	}
}

// fire plays s on its own goroutine
func (c *Coordinator) fire(s core.Sound, loop bool) {
	c.cues.Add(1)
	go func() {
		defer c.cues.Done()
		c.play(s, loop)
	}()
}

func (c *Coordinator) play(s core.Sound, loop bool) {
	c.mCues.Add(1)
	var err error
	if loop {
		err = c.player.Loop(s)
	} else {
		err = c.player.Play(s)
	}
	if err != nil {
		c.mCueErrors.Add(1)
		log.Printf("[coordinator] %s: play %s: %v", c.session, s, err)
	}
}

// updateShake drives the Idle/Shaking state machine for a selection change
func (c *Coordinator) updateShake(prev, next game.Snapshot) {
	if next.GameOver || !isShaking(next, next.Selection, c.dict) {
		c.stopShaking()
		return
	}

	wasShaking := isShaking(next, prev.Selection, c.dict)

	c.mu.Lock()
	if c.shakingSince.IsZero() {
		c.shakingSince = c.clock.Now()
	}
	if wasShaking && c.effects.active(cubeShakingID) {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.mShakeStarts.Add(1)

	c.effects.run(cubeShakingID, c.shake)
}

// shake plays the shake cue now and on every tick until cancelled
func (c *Coordinator) shake(ctx context.Context) {
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	c.play(core.CubeShake, false)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			c.play(core.CubeShake, false)
		}
	}
}

func (c *Coordinator) stopShaking() {
	cancelled := c.effects.cancel(cubeShakingID)

	c.mu.Lock()
	c.shakingSince = time.Time{}
	c.mu.Unlock()
	if cancelled {
		c.mShakeCancels.Add(1)
	}
}

// gameOver stops every game music concurrently and ends shaking
func (c *Coordinator) gameOver() {
	c.stopShaking()

	c.cues.Add(1)
	go func() {
		defer c.cues.Done()

		var g errgroup.Group
		for _, s := range c.music {
			if s == core.GameOverMusicLoop {
				continue
			}
			g.Go(func() error {
				if err := c.player.Stop(s); err != nil {
					return fmt.Errorf("stop %s: %w", s, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Printf("[coordinator] %s: game over: %v", c.session, err)
		}
	}()
}

// ShakingSince returns when the current shake began, zero when idle
func (c *Coordinator) ShakingSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shakingSince
}

// Shaking reports whether the shake timer is live
func (c *Coordinator) Shaking() bool {
	return c.effects.active(cubeShakingID)
}

// Stats returns shake timer counters
func (c *Coordinator) Stats() Stats {
	return Stats{
		ShakeStarts:  int(c.mShakeStarts.Load()),
		ShakeCancels: int(c.mShakeCancels.Load()),
	}
}

// Metrics returns the coordinator's counters
func (c *Coordinator) Metrics() *status.Registry {
	return c.metrics
}

// Wait blocks until all fired cues have been delivered
func (c *Coordinator) Wait() {
	c.cues.Wait()
}

// Stop is the screen-exit signal: cancels the shake timer and drains in-flight work
func (c *Coordinator) Stop() {
	c.stopShaking()
	c.effects.cancelAll()
	c.cues.Wait()
}
