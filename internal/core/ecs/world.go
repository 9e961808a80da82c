package ecs

// World is the top-level ECS container. It owns the id source, the component
// registry, and a deferred destruction queue flushed once at the end of each
// tick. Systems that iterate a store queue ids here instead of deleting
// while iterating.
type World struct {
	ids          *IDSource
	registry     *Registry
	destroyQueue []EntityID
	queued       map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		ids:          NewIDSource(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
		queued:       make(map[EntityID]struct{}, 64),
	}
}

func (w *World) IDs() *IDSource      { return w.ids }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.ids.Next()
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Queuing the
// same id twice in one tick is harmless.
func (w *World) MarkForDestruction(id EntityID) {
	if _, ok := w.queued[id]; ok {
		return
	}
	w.queued[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending reports whether id is queued for destruction.
func (w *World) Pending(id EntityID) bool {
	_, ok := w.queued[id]
	return ok
}

// Reset wipes every registered table and forgets queued destructions. The
// id source keeps counting.
func (w *World) Reset() {
	w.registry.Wipe()
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
}

// FlushDestroyQueue removes all queued entities from every registered store
// and returns the ids in the order they were queued.
func (w *World) FlushDestroyQueue() []EntityID {
	if len(w.destroyQueue) == 0 {
		return nil
	}
	flushed := make([]EntityID, len(w.destroyQueue))
	copy(flushed, w.destroyQueue)
	for _, id := range w.destroyQueue {
		w.registry.Purge(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
	return flushed
}
