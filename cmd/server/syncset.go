package main

import "sync"

// syncSet is a mutex-protected set of player IDs, used to track which
// freshly connected players still need a resync burst once their UDP
// address is known.
type syncSet struct {
	mu   sync.Mutex
	ids  map[uint32]struct{}
	once sync.Once
}

func (s *syncSet) init() {
	s.once.Do(func() { s.ids = make(map[uint32]struct{}) })
}

func (s *syncSet) add(id uint32) {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

func (s *syncSet) remove(id uint32) {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

// take reports whether id was pending and clears it atomically.
func (s *syncSet) take(id uint32) bool {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return false
	}
	delete(s.ids, id)
	return true
}
