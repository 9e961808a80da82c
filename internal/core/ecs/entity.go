package ecs

// EntityID identifies one simulated object. IDs are handed out by an IDSource
// in strictly increasing order and are never reused for the lifetime of that
// source. Zero is never issued.
type EntityID uint64

func (id EntityID) IsZero() bool { return id == 0 }

// IDSource is a monotonic entity id counter.
type IDSource struct {
	next EntityID
}

func NewIDSource() *IDSource {
	return &IDSource{next: 1}
}

// Next returns a fresh id.
func (s *IDSource) Next() EntityID {
	id := s.next
	s.next++
	return id
}

// Peek returns the id the next call to Next will return.
func (s *IDSource) Peek() EntityID { return s.next }
