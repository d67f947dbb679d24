package canon

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/rep-table/rep"
)

// Store holds one ResourceTable per resource type ID. Tables are
// created lazily; a type registered with a destructor keeps it for the
// table's lifetime.
type Store struct {
	tables map[uint32]*ResourceTable
	mu     sync.RWMutex
}

// NewStore creates an empty resource store.
func NewStore() *Store {
	return &Store{
		tables: make(map[uint32]*ResourceTable),
	}
}

// Table returns the table for typeID, creating it without a destructor
// if needed.
func (s *Store) Table(typeID uint32) *ResourceTable {
	return s.table(typeID, nil)
}

// TableWithDtor returns the table for typeID, creating it with dtor if
// it does not exist yet. A destructor on an existing table is not
// replaced.
func (s *Store) TableWithDtor(typeID uint32, dtor func(rep uint32)) *ResourceTable {
	return s.table(typeID, dtor)
}

func (s *Store) table(typeID uint32, dtor func(rep uint32)) *ResourceTable {
	s.mu.RLock()
	t, ok := s.tables[typeID]
	s.mu.RUnlock()
	if ok {
		return t
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tables[typeID]; ok {
		return t
	}
	t = NewResourceTable(dtor)
	s.tables[typeID] = t
	Logger().Debug("resource table created", zap.Uint32("type", typeID))
	return t
}

// Live returns the total count of live resources across all tables.
func (s *Store) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tables {
		n += t.Len()
	}
	return n
}

// ResourceNew implements canon resource.new: creates an owned handle
// from a representation value.
func ResourceNew(store *Store, typeID uint32, repValue uint32) rep.Handle {
	return store.Table(typeID).New(repValue)
}

// ResourceRep implements canon resource.rep: returns the
// representation value for a live handle.
func ResourceRep(store *Store, typeID uint32, h rep.Handle) (uint32, error) {
	return store.Table(typeID).Rep(h)
}

// ResourceDrop implements canon resource.drop: releases an own handle
// and runs the type's destructor when the last reference goes.
func ResourceDrop(store *Store, typeID uint32, h rep.Handle) error {
	t := store.Table(typeID)

	repValue, needsDtor, err := t.Drop(h)
	if err != nil {
		return fmt.Errorf("type %d: %w", typeID, err)
	}
	if needsDtor {
		Logger().Debug("running resource destructor",
			zap.Uint32("type", typeID),
			zap.Uint32("rep", repValue))
		t.RunDestructor(repValue)
	}
	return nil
}
