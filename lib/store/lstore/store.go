package lstore

import (
	"strings"
	"sync"

	"github.com/ValentinKolb/techlog/lib/record"
	"github.com/ValentinKolb/techlog/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("store")

type storeImpl struct {
	mu      sync.RWMutex
	records []record.Record
}

// NewLocalStore creates a new, empty local store instance.
func NewLocalStore() store.IStore {
	return &storeImpl{}
}

// indexOf returns the position of the first record with the given id or -1.
//
// Thread-safety: the caller must hold the lock.
func (s *storeImpl) indexOf(id string) int {
	for i, r := range s.records {
		if record.SameID(r.ID(), id) {
			return i
		}
	}
	return -1
}

// checkID validates the id argument of a lookup
func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return store.InvalidArgument("id must not be empty")
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Add(r record.Record) error {
	if r == nil {
		return store.InvalidArgument("record must not be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(r.ID()) >= 0 {
		return store.DuplicateID(r.ID())
	}
	s.records = append(s.records, r.Clone())
	log.Debugf("added record %s (%s)", r.ID(), r.Kind())
	return nil
}

func (s *storeImpl) FindByID(id string) (record.Record, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, store.NotFound(id)
	}
	return s.records[i].Clone(), nil
}

func (s *storeImpl) Remove(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return store.NotFound(id)
	}
	removed := s.records[i]
	// keep insertion order of the remaining records
	copy(s.records[i:], s.records[i+1:])
	s.records[len(s.records)-1] = nil
	s.records = s.records[:len(s.records)-1]
	log.Debugf("removed record %s", removed.ID())
	return nil
}

func (s *storeImpl) Update(id string, fn func(r record.Record) error) error {
	if err := checkID(id); err != nil {
		return err
	}
	if fn == nil {
		return store.InvalidArgument("update function must not be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return store.NotFound(id)
	}

	// work on a copy so a failed update never leaves a half-modified record behind
	updated := s.records[i].Clone()
	if err := fn(updated); err != nil {
		return err
	}
	for j, other := range s.records {
		if j != i && record.Same(other, updated) {
			return store.DuplicateID(updated.ID())
		}
	}
	s.records[i] = updated
	return nil
}

func (s *storeImpl) ListAll() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]record.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

func (s *storeImpl) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *storeImpl) Reset(records []record.Record) error {
	fresh := make([]record.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil {
			return store.InvalidArgument("record must not be nil")
		}
		key := record.NormalizeID(r.ID())
		if _, ok := seen[key]; ok {
			return store.DuplicateID(r.ID())
		}
		seen[key] = struct{}{}
		fresh = append(fresh, r.Clone())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = fresh
	return nil
}
