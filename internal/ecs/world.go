package ecs

// World is the top-level ECS container: entity pool, component registry,
// and a deferred-destruction queue flushed by the terminal cleanup system
// each tick (spec §3: "If ToDestroy is present, the entity is removed
// before the next snapshot is serialized").
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// SpawnEntity allocates a new entity id, visible to every system that
// runs later in the same tick.
func (w *World) SpawnEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Queuing
// twice is harmless; FlushDestroyQueue is idempotent per id via the
// generational pool.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestruction reports the ids queued for destruction this tick,
// without removing them. Used by systems (snapshot builder, destroy
// payload emission) that must act on "about to die" entities before
// FlushDestroyQueue runs.
func (w *World) PendingDestruction() []EntityID {
	return w.destroyQueue
}

// FlushDestroyQueue destroys every queued entity and clears its
// components from all registered stores. Called by the terminal
// DestroySystem at the end of each tick.
func (w *World) FlushDestroyQueue() []EntityID {
	destroyed := append([]EntityID(nil), w.destroyQueue...)
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	return destroyed
}
