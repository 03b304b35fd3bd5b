// Package app provides application lifecycle management, configuration,
// and events.
package app

import (
	"fmt"
	"os"
	"sync"

	"map-editor/internal/world"
)

// State holds the shared application state: the geometry model, per
// category layer visibility, and the event bus the UI panels listen on.
type State struct {
	mu sync.RWMutex

	// GeometryPath is the file the entity set was loaded from, empty
	// for an unsaved session.
	GeometryPath string
	Modified     bool

	Model *world.Model

	// MaxTileIndex bounds the finite world's tile grid. Set once at
	// startup from the config.
	MaxTileIndex int

	visibility      map[world.Category]bool
	showProvisional bool

	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventGeometryLoaded EventType = iota
	EventGeometrySaved
	EventEntityFinished
	EventDraftChanged
	EventViewChanged
	EventVisibilityChanged
	EventEntityInspected
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with every layer visible.
func NewState() *State {
	vis := make(map[world.Category]bool)
	for _, c := range world.Categories() {
		vis[c] = true
	}
	return &State{
		Model:           world.NewModel(),
		MaxTileIndex:    DefaultConfig().MaxTileIndex,
		visibility:      vis,
		showProvisional: true,
		listeners:       make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// SetVisible toggles one category layer.
func (s *State) SetVisible(cat world.Category, on bool) {
	s.mu.Lock()
	s.visibility[cat] = on
	s.mu.Unlock()
	s.Emit(EventVisibilityChanged, cat)
}

// Visible reports whether a category layer is toggled on.
func (s *State) Visible(cat world.Category) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibility[cat]
}

// SetShowProvisional toggles rendering of the draft entity.
func (s *State) SetShowProvisional(on bool) {
	s.mu.Lock()
	s.showProvisional = on
	s.mu.Unlock()
	s.Emit(EventVisibilityChanged, nil)
}

// ShowProvisional reports whether the draft entity is rendered.
func (s *State) ShowProvisional() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showProvisional
}

// VisibilityAt builds the per-frame visibility filter: the layer toggle
// combined with the category's minimum zoom. Evaluated fresh on every
// use so toggles are never stale.
func (s *State) VisibilityAt(zoom float64) world.Visibility {
	return func(cat world.Category) bool {
		return s.Visible(cat) && zoom > cat.MinVisibleZoom()
	}
}

// LoadGeometry replaces the model's entities with the contents of a
// JSON geometry file.
func (s *State) LoadGeometry(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open geometry: %w", err)
	}
	defer f.Close()

	entities, err := world.DecodeEntities(f)
	if err != nil {
		return fmt.Errorf("decode geometry %s: %w", path, err)
	}

	s.mu.Lock()
	s.GeometryPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Model.Replace(entities)
	s.Emit(EventGeometryLoaded, path)
	return nil
}

// SaveGeometry writes the persisted entities to a JSON geometry file.
func (s *State) SaveGeometry(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create geometry: %w", err)
	}
	if err := world.EncodeEntities(f, s.Model.Entities()); err != nil {
		f.Close()
		return fmt.Errorf("encode geometry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	s.mu.Lock()
	s.GeometryPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventGeometrySaved, path)
	return nil
}
