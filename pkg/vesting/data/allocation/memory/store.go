package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
)

type ById []*allocation.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

type store struct {
	mu      sync.Mutex
	records []*allocation.Record
	last    uint64
}

// New returns a new in memory allocation.Store
func New() allocation.Store {
	return &store{}
}

// Put implements allocation.Store.Put
func (s *store) Put(_ context.Context, data *allocation.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	if item := s.find(data.AllocationId); item != nil {
		item.Name = data.Name

		item.Reserved = data.Reserved
		item.Vested = data.Vested
		item.Claimed = data.Claimed

		item.Lockup = data.Lockup
		item.Cliff = data.Cliff
		item.VestingDuration = data.VestingDuration
		item.UnlockDelay = data.UnlockDelay
		item.TgeUnlockBps = data.TgeUnlockBps

		item.LastUpdatedAt = time.Now()

		item.CopyTo(data)
	} else {
		if data.Id == 0 {
			data.Id = s.last
		}
		data.LastUpdatedAt = time.Now()
		s.records = append(s.records, data.Clone())
	}

	return nil
}

// Get implements allocation.Store.Get
func (s *store) Get(_ context.Context, allocationId string) (*allocation.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.find(allocationId); item != nil {
		return item.Clone(), nil
	}
	return nil, allocation.ErrNotFound
}

// GetAll implements allocation.Store.GetAll
func (s *store) GetAll(_ context.Context) ([]*allocation.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]*allocation.Record, len(s.records))
	for i, item := range s.records {
		res[i] = item.Clone()
	}
	sort.Sort(ById(res))

	return res, nil
}

// GetAggregates implements allocation.Store.GetAggregates
func (s *store) GetAggregates(_ context.Context) (*allocation.Aggregates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res allocation.Aggregates
	for _, item := range s.records {
		res.TotalReserved += item.Reserved
		res.TotalVested += item.Vested
		res.TotalClaimed += item.Claimed
	}

	return &res, nil
}

// Delete implements allocation.Store.Delete
func (s *store) Delete(_ context.Context, allocationId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.records {
		if item.AllocationId == allocationId {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}

	return allocation.ErrNotFound
}

func (s *store) find(allocationId string) *allocation.Record {
	for _, item := range s.records {
		if item.AllocationId == allocationId {
			return item
		}
	}
	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.last = 0
}
