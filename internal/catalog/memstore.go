// memstore.go — In-memory movie store.
//
// Backs unit tests and token-free local runs. Same contract as the Postgres
// store: uniqueness on LOWER(name), case-insensitive lookup, atomic random
// draw (here, under the mutex over a snapshot).
package catalog

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemStore implements Store with a mutex-guarded map keyed by LOWER(name).
type MemStore struct {
	mu     sync.Mutex
	movies map[string]Movie
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{movies: make(map[string]Movie)}
}

func (s *MemStore) Insert(_ context.Context, m Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(m.Name)
	if _, ok := s.movies[key]; ok {
		return ErrAlreadyExists
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.movies[key] = m
	return nil
}

func (s *MemStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.movies[strings.ToLower(name)]
	return ok, nil
}

func (s *MemStore) List(_ context.Context) ([]Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies := make([]Movie, 0, len(s.movies))
	for _, m := range s.movies {
		movies = append(movies, m)
	}
	sort.Slice(movies, func(i, j int) bool {
		return strings.ToLower(movies[i].Name) < strings.ToLower(movies[j].Name)
	})
	return movies, nil
}

func (s *MemStore) Rename(_ context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldKey := strings.ToLower(oldName)
	m, ok := s.movies[oldKey]
	if !ok {
		return ErrNotFound
	}
	newKey := strings.ToLower(newName)
	if _, taken := s.movies[newKey]; taken && newKey != oldKey {
		return ErrAlreadyExists
	}
	delete(s.movies, oldKey)
	m.Name = newName
	s.movies[newKey] = m
	return nil
}

func (s *MemStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := s.movies[key]; !ok {
		return ErrNotFound
	}
	delete(s.movies, key)
	return nil
}

func (s *MemStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.movies))
	s.movies = make(map[string]Movie)
	return n, nil
}

func (s *MemStore) Random(_ context.Context) (*Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.movies) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(s.movies))
	for k := range s.movies {
		keys = append(keys, k)
	}
	m := s.movies[keys[rand.Intn(len(keys))]]
	return &m, nil
}
