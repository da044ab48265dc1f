package colony

import "formicarium/internal/sim"

// Memory is a fixed-capacity record of recently visited locations, stored
// in a ring buffer: once full, every insert overwrites the oldest slot.
// A zero-capacity memory accepts inserts as no-ops and never contains
// anything.
type Memory struct {
	next  int
	slots []memorySlot
}

type memorySlot struct {
	location sim.Location
	occupied bool
}

// NewMemory creates a memory with room for capacity locations.
func NewMemory(capacity int) *Memory {
	if capacity < 0 {
		capacity = 0
	}
	return &Memory{slots: make([]memorySlot, capacity)}
}

// Insert records a location in place of the oldest one.
func (m *Memory) Insert(loc sim.Location) {
	if len(m.slots) == 0 {
		return
	}
	m.slots[m.next] = memorySlot{location: loc, occupied: true}
	m.next = (m.next + 1) % len(m.slots)
}

// Contains reports whether the location is currently held in any slot.
func (m *Memory) Contains(loc sim.Location) bool {
	for _, slot := range m.slots {
		if slot.occupied && slot.location == loc {
			return true
		}
	}
	return false
}

// Clear forgets every recorded location.
func (m *Memory) Clear() {
	for i := range m.slots {
		m.slots[i] = memorySlot{}
	}
	m.next = 0
}

// Capacity is the number of slots the memory was built with.
func (m *Memory) Capacity() int {
	return len(m.slots)
}
