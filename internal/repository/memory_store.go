package repository

import (
	"context"
	"sync"
)

// MemoryStore is a process-local KVStore. Scan returns entries in insertion
// order; overwriting a key keeps its original position.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]map[string][]byte
	order map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]map[string][]byte),
		order: make(map[string][]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[namespace][key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStore) Scan(_ context.Context, namespace string) ([]KVPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.order[namespace]
	pairs := make([]KVPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, KVPair{Key: k, Value: append([]byte(nil), s.data[namespace][k]...)})
	}
	return pairs, nil
}

func (s *MemoryStore) Set(_ context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.data[namespace] = ns
	}
	if _, exists := ns[key]; !exists {
		s.order[namespace] = append(s.order[namespace], key)
	}
	ns[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		return nil
	}
	if _, exists := ns[key]; !exists {
		return nil
	}
	delete(ns, key)

	keys := s.order[namespace]
	for i, k := range keys {
		if k == key {
			s.order[namespace] = append(keys[:i:i], keys[i+1:]...)
			break
		}
	}
	return nil
}
