package session

import (
	"slices"
	"sync"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// snapshot holds the last successfully fetched value of one collection.
// Reads return a copy so callers never alias cached state; writes replace
// the whole value.
type snapshot[T any] struct {
	mu     sync.RWMutex
	value  T
	loaded bool
	clone  func(T) T
}

func newSnapshot[T any](initial T, clone func(T) T) *snapshot[T] {
	return &snapshot[T]{value: clone(initial), clone: clone}
}

// load returns a copy of the cached value and whether a fetch ever succeeded.
func (s *snapshot[T]) load() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone(s.value), s.loaded
}

func (s *snapshot[T]) replace(v T) {
	v = s.clone(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.loaded = true
}

// reset returns the snapshot to its "not loaded" state.
func (s *snapshot[T]) reset() {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = s.clone(zero)
	s.loaded = false
}

func cloneList[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

func cloneValue[T any](in T) T { return in }

func cloneDashboard(in domain.Dashboard) domain.Dashboard {
	out := in
	out.LatestAppointments = cloneList(in.LatestAppointments)
	return out
}

func newDoctorList() *snapshot[[]domain.Doctor] {
	return newSnapshot([]domain.Doctor{}, cloneList[domain.Doctor])
}

func newAppointmentList() *snapshot[[]domain.Appointment] {
	return newSnapshot([]domain.Appointment{}, cloneList[domain.Appointment])
}

func newDashboard() *snapshot[domain.Dashboard] {
	return newSnapshot(domain.Dashboard{}, cloneDashboard)
}
