package kv

import "sync"

// Memory is an in-process Store used by tests and ephemeral runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites makes every Set return an error; tests use it to exercise
	// the persistence-failure paths.
	FailWrites bool
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (s *Memory) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, false
	}
	cpy := make([]byte, len(val))
	copy(cpy, val)
	return cpy, true
}

func (s *Memory) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return errWriteFailed
	}

	cpy := make([]byte, len(value))
	copy(cpy, value)
	s.data[key] = cpy
	return nil
}

func (s *Memory) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *Memory) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
