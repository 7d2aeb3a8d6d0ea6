package kvtest

import (
	"sort"
	"sync"
)

// store is one tenant's buckets.
type store struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

func newStore() *store {
	return &store{buckets: make(map[string]map[string][]byte)}
}

func (s *store) createBucket(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[name]; !ok {
		s.buckets[name] = make(map[string][]byte)
	}
}

func (s *store) deleteBucket(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[name]; !ok {
		return false
	}
	delete(s.buckets, name)
	return true
}

func (s *store) bucketNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *store) keys(bucket string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buckets[bucket]
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, true
}

func (s *store) put(bucket, key string, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucket]
	if !ok {
		return false
	}
	b[key] = append([]byte(nil), value...)
	return true
}

// get reports bucketFound separately so callers can tell the 404 causes apart.
func (s *store) get(bucket, key string) (value []byte, bucketFound, keyFound bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buckets[bucket]
	if !ok {
		return nil, false, false
	}
	v, ok := b[key]
	return v, true, ok
}

func (s *store) delete(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucket]
	if !ok {
		return false
	}
	delete(b, key)
	return true
}

func (s *store) clone() *store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := newStore()
	for name, b := range s.buckets {
		nb := make(map[string][]byte, len(b))
		for k, v := range b {
			nb[k] = append([]byte(nil), v...)
		}
		out.buckets[name] = nb
	}
	return out
}
