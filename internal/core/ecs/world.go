package ecs

// Tag is a small behaviour classifier carried by every entity. The meaning of
// each value belongs to the game layer.
type Tag uint8

// Entity is the per-entity metadata owned by the World. Components live in
// registered stores keyed by ID.
type Entity struct {
	ID     EntityID
	Name   string
	Tag    Tag
	Active bool
}

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by CleanupSystem each tick.
//
// Entities marked for destruction stay allocated until the flush but are
// reported as not Alive, so the pass that marked them cannot observe them again.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	pending      map[EntityID]struct{}
	entities     []*Entity
	byID         map[EntityID]*Entity
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
		pending:      make(map[EntityID]struct{}, 64),
		entities:     make([]*Entity, 0, 256),
		byID:         make(map[EntityID]*Entity, 256),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// CreateEntity allocates a new active entity.
func (w *World) CreateEntity(name string, tag Tag) EntityID {
	id := w.pool.Create()
	e := &Entity{ID: id, Name: name, Tag: tag, Active: true}
	w.entities = append(w.entities, e)
	w.byID[id] = e
	return id
}

// Alive reports whether id refers to a live entity that is not queued for
// destruction.
func (w *World) Alive(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	_, gone := w.pending[id]
	return !gone
}

// Active reports whether id is alive and participates in simulation passes.
func (w *World) Active(id EntityID) bool {
	if !w.Alive(id) {
		return false
	}
	return w.byID[id].Active
}

func (w *World) Entity(id EntityID) (*Entity, bool) {
	if !w.Alive(id) {
		return nil, false
	}
	return w.byID[id], true
}

// Entities returns live entities in creation order, inactive ones included.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.entities))
	for _, e := range w.entities {
		if w.Alive(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Len counts live entities.
func (w *World) Len() int {
	return len(w.entities) - len(w.pending)
}

// FindByName returns live entities whose name matches exactly, in creation order.
func (w *World) FindByName(name string) []EntityID {
	var out []EntityID
	for _, e := range w.entities {
		if e.Name == name && w.Alive(e.ID) {
			out = append(out, e.ID)
		}
	}
	return out
}

// FindByTag returns live entities carrying tag, in creation order.
func (w *World) FindByTag(tag Tag) []EntityID {
	var out []EntityID
	for _, e := range w.entities {
		if e.Tag == tag && w.Alive(e.ID) {
			out = append(out, e.ID)
		}
	}
	return out
}

// SetAllActive flips the active flag of every live entity.
func (w *World) SetAllActive(active bool) {
	for _, e := range w.entities {
		e.Active = active
	}
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Marking the
// same entity twice is a no-op.
func (w *World) MarkForDestruction(id EntityID) {
	if !w.Alive(id) {
		return
	}
	w.pending[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestroy counts entities waiting for the next flush.
func (w *World) PendingDestroy() int {
	return len(w.destroyQueue)
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() {
	if len(w.destroyQueue) == 0 {
		return
	}
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		delete(w.byID, id)
	}
	kept := w.entities[:0]
	for _, e := range w.entities {
		if _, gone := w.pending[e.ID]; !gone {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(w.entities); i++ {
		w.entities[i] = nil
	}
	w.entities = kept
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.pending)
}
