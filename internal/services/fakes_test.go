package services

import (
	"context"
	"errors"
	"sync"

	"hiringdesk/resume-intake/internal/models"
)

type stubParser struct {
	text string
	err  error
}

func (p *stubParser) ExtractText(string) (string, error) { return p.text, p.err }

func (p *stubParser) ExtractTextFromBytes([]byte) (string, error) { return p.text, p.err }

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (s *memStorage) EnsureReady(context.Context) error { return nil }

func (s *memStorage) Save(_ context.Context, name string, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := newObjectKey(name)
	s.objects[key] = data
	return key, nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(s.objects, key)
	return nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]models.Stats
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]models.Stats{}}
}

func (c *memCache) Get(_ context.Context, key string) (*models.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	stats, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &stats, nil
}

func (c *memCache) Set(_ context.Context, key string, stats models.Stats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = stats
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}
