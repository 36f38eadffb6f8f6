// Package store reads and patches content records, weekly plans and the topic pool.
package store

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/jonathan/shorts-studio/internal/types"
)

// RecordNotFoundError is returned when a content id is absent from the store.
type RecordNotFoundError struct {
	ID string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("content record %s not found", e.ID)
}

// PlanNotFoundError is returned when a week has no plan row.
type PlanNotFoundError struct {
	Week string
}

func (e *PlanNotFoundError) Error() string {
	return fmt.Sprintf("no weekly plan for %s", e.Week)
}

// Selector narrows ReadRecords. Zero fields match everything.
type Selector struct {
	IDs    []string
	Week   string
	Status types.Status
}

// Matches reports whether rec passes the selector.
func (s Selector) Matches(rec types.ContentRecord) bool {
	if len(s.IDs) > 0 && !slices.Contains(s.IDs, rec.ID) {
		return false
	}
	if s.Week != "" && rec.Week != s.Week {
		return false
	}
	if s.Status != "" && rec.Status != s.Status {
		return false
	}
	return true
}

// RecordStore is the content calendar.
// Row order is append order and ids are unique.
type RecordStore interface {
	ReadRecords(ctx context.Context, sel Selector) ([]types.ContentRecord, error)
	// WriteRecord patches one record. Returns *RecordNotFoundError for unknown ids.
	WriteRecord(ctx context.Context, id string, patch types.RecordPatch) error
	AppendRecords(ctx context.Context, records []types.ContentRecord) error
}

// PlanStore holds the weekly plan and the topic pool.
type PlanStore interface {
	// ReadWeeklyPlan returns *PlanNotFoundError when week has no row.
	ReadWeeklyPlan(ctx context.Context, week string) (*types.WeeklyPlan, error)
	AppendTopics(ctx context.Context, category string, topics []types.Topic) error
}

// Store is a backend that serves both.
type Store interface {
	RecordStore
	PlanStore
}

// GetRecord fetches a single record by id.
func GetRecord(ctx context.Context, s RecordStore, id string) (*types.ContentRecord, error) {
	records, err := s.ReadRecords(ctx, Selector{IDs: []string{id}})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &RecordNotFoundError{ID: id}
	}
	rec := records[0]
	return &rec, nil
}

// NextIDs returns n ids following the largest numeric id in records.
func NextIDs(records []types.ContentRecord, n int) []string {
	maxID := 0
	for _, rec := range records {
		if id, err := strconv.Atoi(rec.ID); err == nil && id > maxID {
			maxID = id
		}
	}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(maxID + i + 1)
	}
	return ids
}

// keyedMutex serializes work per record id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

// lock blocks until id is free and returns the matching unlock.
func (k *keyedMutex) lock(id string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refLock)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &refLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
