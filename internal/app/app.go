// Package app wires the Mudra pipeline together: tracking source, joint
// sampler, gesture engine, interaction arbiter, and the focused object,
// driven by a single frame loop.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/interact"
	"github.com/ayusman/mudra/internal/object"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/track"
)

// DefaultObjectRadius is the bounding radius assumed for focused content
// before real asset bounds are known.
const DefaultObjectRadius = 0.12

// Config holds configuration options for the application.
type Config struct {
	Store  *store.Store
	Tuning *config.Tuning
	Source track.Source

	// Publish, when set, receives every event the pipeline produces,
	// already named for the wire.
	Publish func(kind string, payload any)
}

// App owns the frame loop and all pipeline components.
type App struct {
	config Config

	sampler *track.Sampler
	engine  *gesture.Engine
	arbiter *interact.Arbiter
	object  *object.Object
	panel   *overlay.Panel
	feed    *Feed
	viewer  *Viewer

	enabled     bool
	mode        string
	lastGesture string
	onGesture   func(name string)

	// tuningView mirrors the effective tuning for cross-goroutine reads;
	// pendingTuning is installed by the loop at the next frame boundary.
	tuningView    config.Tuning
	pendingTuning *config.Tuning

	mu     sync.RWMutex
	stopCh chan struct{}
}

// New creates an App with the given configuration. The tuning and source
// must be set; store and publish hook are optional.
func New(cfg Config) *App {
	obj := object.New(cfg.Tuning, DefaultObjectRadius)
	panel := overlay.NewPanel()
	feed := NewFeed(nil)
	viewer := NewViewer()

	engine := gesture.NewEngine(cfg.Tuning, obj, viewer)
	arbiter := interact.NewArbiter(cfg.Tuning, engine, obj, panel, feed)

	return &App{
		config:     cfg,
		sampler:    track.NewSampler(cfg.Tuning.MinHandScore),
		engine:     engine,
		arbiter:    arbiter,
		object:     obj,
		panel:      panel,
		feed:       feed,
		viewer:     viewer,
		enabled:    true,
		mode:       interact.ModeIdle.String(),
		tuningView: *cfg.Tuning,
	}
}

// Tuning returns a snapshot of the effective tuning parameters.
func (a *App) Tuning() config.Tuning {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tuningView
}

// ApplyTuning schedules a full tuning replacement. The frame loop installs
// it at the next frame boundary, so the engine and arbiter never observe a
// mid-frame change.
func (a *App) ApplyTuning(t config.Tuning) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingTuning = &t
	a.tuningView = t
}

// SetEnabled enables or disables gesture processing. Frames still drain
// while disabled so the source never backs up.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture processing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Mode returns the interaction mode as of the last processed frame.
func (a *App) Mode() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// LastGesture returns the most recent named gesture event.
func (a *App) LastGesture() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastGesture
}

// OnGesture sets a callback invoked with each named gesture event, used
// by the tray to show the last recognized gesture.
func (a *App) OnGesture(fn func(name string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGesture = fn
}

// Object returns the focused object.
func (a *App) Object() *object.Object {
	return a.object
}

// Panel returns the overlay panel.
func (a *App) Panel() *overlay.Panel {
	return a.panel
}

// Feed returns the content feed.
func (a *App) Feed() *Feed {
	return a.feed
}

// Start begins the frame loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	a.stopCh = make(chan struct{})
	go a.runLoop()

	log.Println("app: frame loop started")
	return nil
}

// Stop halts the frame loop and closes the tracking source.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if a.config.Source != nil {
		if err := a.config.Source.Close(); err != nil {
			log.Printf("app: error closing source: %v", err)
		}
	}

	log.Println("app: frame loop stopped")
}
