package lbm

import (
	"log"
	"sync"
	"time"
)

// Engine drives a Simulation at a fixed step cadence and publishes a
// FieldSnapshot after every step. The core has no I/O or cancellation of
// its own; the engine decides the cadence and may stop between steps at any
// time without corrupting state.
type Engine struct {
	sim         *Simulation
	stepsPerSec int

	mu       sync.Mutex
	running  bool
	paused   bool
	ticker   *time.Ticker
	stopChan chan struct{}

	snapshots *SnapshotPool

	// Scratch planes reused every tick.
	ux, uy []float64

	// Sticky instability error; once set the engine pauses itself, since
	// retrying a deterministic failed step reproduces the same failure.
	stepErr error

	// OnStep, when set, observes every step's duration and outcome. Wired
	// to the metrics layer by the server.
	OnStep func(d time.Duration, err error)
}

// NewEngine wraps the simulation in a ticker-driven loop at stepsPerSec
// steps per second.
func NewEngine(sim *Simulation, stepsPerSec int) *Engine {
	if stepsPerSec < 1 {
		stepsPerSec = 1
	}
	n := sim.Width() * sim.Height()
	return &Engine{
		sim:         sim,
		stepsPerSec: stepsPerSec,
		stopChan:    make(chan struct{}),
		snapshots:   NewSnapshotPool(sim.Width(), sim.Height()),
		ux:          make([]float64, n),
		uy:          make([]float64, n),
	}
}

// Start begins the step loop. Calling Start twice is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	// Publish the initial state so readers never see an empty snapshot.
	e.publishSnapshot(0)

	e.ticker = time.NewTicker(time.Second / time.Duration(e.stepsPerSec))
	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("solver engine started at %d steps/s (%dx%d, tau=%.3f)",
		e.stepsPerSec, e.sim.Width(), e.sim.Height(), e.sim.Tau())
}

// Stop halts the step loop. Safe to call more than once.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("solver engine stopped")
}

// Pause suspends stepping between steps; the published snapshot stays valid.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

// Resume restarts stepping unless the simulation went unstable.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stepErr != nil {
		return e.stepErr
	}
	e.paused = false
	return nil
}

// IsPaused reports whether stepping is suspended.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Err returns the sticky step error, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepErr
}

// Snapshot returns the latest published field snapshot.
func (e *Engine) Snapshot() *FieldSnapshot {
	return e.snapshots.AcquireRead()
}

// Sim exposes the underlying simulation for point queries. The simulation
// only mutates inside tick, which the engine serializes.
func (e *Engine) Sim() *Simulation { return e.sim }

// PublishNow extracts and publishes a snapshot outside the ticker loop.
// Offline drivers that call Step directly use this between frames; do not
// mix it with a running Start loop.
func (e *Engine) PublishNow() {
	e.publishSnapshot(0)
}

func (e *Engine) tick() {
	e.mu.Lock()
	if e.paused {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	start := time.Now()
	err := e.sim.Step()
	elapsed := time.Since(start)

	if e.OnStep != nil {
		e.OnStep(elapsed, err)
	}
	if err != nil {
		e.mu.Lock()
		e.stepErr = err
		e.paused = true
		e.mu.Unlock()
		log.Printf("step %d failed, pausing: %v", e.sim.Steps(), err)
	}

	e.publishSnapshot(elapsed)
}

// publishSnapshot extracts the macroscopic fields into the next snapshot
// slot and publishes it.
func (e *Engine) publishSnapshot(stepDuration time.Duration) {
	snap := e.snapshots.AcquireWrite()

	e.sim.FillMacroscopics(snap.Density, e.ux, e.uy)
	copy(snap.VelocityX, e.ux)
	copy(snap.VelocityY, e.uy)
	SpeedPlane(e.ux, e.uy, snap.Speed)
	VorticityPlane(e.ux, e.uy, e.sim.Width(), e.sim.Height(), snap.Vorticity)
	snap.Kinds = e.sim.Kinds()

	snap.Step = e.sim.Steps()
	snap.StepDuration = stepDuration

	mass := 0.0
	maxSpeed := 0.0
	kinds := e.sim.Kinds()
	for c, rho := range snap.Density {
		if kinds[c] == Wall {
			continue
		}
		mass += rho
		if snap.Speed[c] > maxSpeed {
			maxSpeed = snap.Speed[c]
		}
	}
	snap.TotalMass = mass
	snap.MaxSpeed = maxSpeed

	e.mu.Lock()
	if e.stepErr != nil {
		snap.Unstable = true
		snap.Err = e.stepErr.Error()
	} else {
		snap.Unstable = false
		snap.Err = ""
	}
	e.mu.Unlock()

	e.snapshots.PublishWrite()
}
