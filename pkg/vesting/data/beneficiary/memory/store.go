package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openvest/vesting-server/pkg/database/query"
	"github.com/openvest/vesting-server/pkg/vesting/data/beneficiary"
)

type ById []*beneficiary.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

type store struct {
	mu      sync.Mutex
	records []*beneficiary.Record
	last    uint64
}

// New returns a new in memory beneficiary.Store
func New() beneficiary.Store {
	return &store{}
}

// Put implements beneficiary.Store.Put
func (s *store) Put(_ context.Context, data *beneficiary.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	if item := s.find(data.Owner, data.AllocationId); item != nil {
		item.Vested = data.Vested
		item.Claimed = data.Claimed

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

// Get implements beneficiary.Store.Get
func (s *store) Get(_ context.Context, owner, allocationId string) (*beneficiary.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.find(owner, allocationId); item != nil {
		return item.Clone(), nil
	}
	return nil, beneficiary.ErrNotFound
}

// GetAllByOwner implements beneficiary.Store.GetAllByOwner
func (s *store) GetAllByOwner(_ context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*beneficiary.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*beneficiary.Record
	for _, item := range s.records {
		if item.Owner == owner {
			items = append(items, item.Clone())
		}
	}

	res := s.filter(items, cursor, limit, direction)
	if len(res) == 0 {
		return nil, beneficiary.ErrNotFound
	}

	return res, nil
}

func (s *store) filter(items []*beneficiary.Record, cursor query.Cursor, limit uint64, direction query.Ordering) []*beneficiary.Record {
	var start uint64
	if direction == query.Descending {
		start = s.last + 1
	}
	if len(cursor) > 0 {
		start = cursor.ToUint64()
	}

	var res []*beneficiary.Record
	for _, item := range items {
		if direction == query.Ascending && item.Id > start {
			res = append(res, item)
		}
		if direction == query.Descending && item.Id < start {
			res = append(res, item)
		}
	}

	if direction == query.Ascending {
		sort.Sort(ById(res))
	} else {
		sort.Sort(sort.Reverse(ById(res)))
	}

	if limit > 0 && uint64(len(res)) > limit {
		res = res[:limit]
	}

	return res
}

func (s *store) find(owner, allocationId string) *beneficiary.Record {
	for _, item := range s.records {
		if item.Owner == owner && item.AllocationId == allocationId {
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
