package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openvest/vesting-server/pkg/vesting/data/settings"
)

type store struct {
	mu     sync.Mutex
	record *settings.Record
}

// New returns a new in memory settings.Store
func New() settings.Store {
	return &store{}
}

// Put implements settings.Store.Put
func (s *store) Put(_ context.Context, data *settings.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data.LastUpdatedAt = time.Now()
	if s.record == nil {
		if data.Id == 0 {
			data.Id = 1
		}
		s.record = data.Clone()
	} else {
		data.Id = s.record.Id
		s.record = data.Clone()
	}

	return nil
}

// Get implements settings.Store.Get
func (s *store) Get(_ context.Context) (*settings.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return nil, settings.ErrNotFound
	}
	return s.record.Clone(), nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = nil
}
