package ecs

import "sort"

// Store is a generic typed map store keyed by entity id. Iteration visits
// entries in ascending id order so that anything driven by it (nearest
// neighbour ties, random draws per entity) is reproducible.
type Store[T any] struct {
	data  map[EntityID]*T
	order []EntityID
	dirty bool
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[EntityID]*T, 256),
	}
}

func (s *Store[T]) Set(id EntityID, c *T) {
	if _, ok := s.data[id]; !ok {
		s.dirty = true
	}
	s.data[id] = c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; ok {
		delete(s.data, id)
		s.dirty = true
	}
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

func (s *Store[T]) Clear() {
	clear(s.data)
	s.order = s.order[:0]
	s.dirty = false
}

// IDs returns the ids currently stored, ascending. The returned slice is a
// copy and stays valid if the store is mutated afterwards.
func (s *Store[T]) IDs() []EntityID {
	s.sortOrder()
	out := make([]EntityID, len(s.order))
	copy(out, s.order)
	return out
}

// Each visits every entry in ascending id order. fn may mutate the visited
// component but must not add or remove entries; use IDs for that.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	s.sortOrder()
	for _, id := range s.order {
		fn(id, s.data[id])
	}
}

func (s *Store[T]) sortOrder() {
	if !s.dirty {
		return
	}
	s.order = s.order[:0]
	for id := range s.data {
		s.order = append(s.order, id)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })
	s.dirty = false
}
