package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/shorts-studio/internal/types"
)

// PoolEntry is one row of the topic pool.
type PoolEntry struct {
	Category    string `json:"category"`
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Snapshot is the serialized form of a MemoryStore.
type Snapshot struct {
	Records []types.ContentRecord `json:"records"`
	Plans   []types.WeeklyPlan    `json:"plans"`
	Topics  []PoolEntry           `json:"topics"`
}

// MemoryStore keeps everything in process. With a path it persists to a JSON file after each write.
type MemoryStore struct {
	mu   sync.Mutex
	data Snapshot
	path string
}

// NewMemoryStore creates a store seeded with records.
func NewMemoryStore(records ...types.ContentRecord) *MemoryStore {
	return &MemoryStore{data: Snapshot{Records: append([]types.ContentRecord(nil), records...)}}
}

// OpenFileStore loads path if it exists and saves back to it on every write.
func OpenFileStore(path string) (*MemoryStore, error) {
	s := &MemoryStore{path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if err := json.Unmarshal(data, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	return s, nil
}

// AddPlan inserts or replaces the plan for its week.
func (s *MemoryStore) AddPlan(plan types.WeeklyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Plans {
		if s.data.Plans[i].Week == plan.Week {
			s.data.Plans[i] = plan
			return s.save()
		}
	}
	s.data.Plans = append(s.data.Plans, plan)
	return s.save()
}

// Topics returns a copy of the topic pool.
func (s *MemoryStore) Topics() []PoolEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PoolEntry(nil), s.data.Topics...)
}

func (s *MemoryStore) ReadRecords(_ context.Context, sel Selector) ([]types.ContentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []types.ContentRecord
	for _, rec := range s.data.Records {
		if sel.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) WriteRecord(_ context.Context, id string, patch types.RecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Records {
		if s.data.Records[i].ID == id {
			s.data.Records[i] = patch.Apply(s.data.Records[i])
			return s.save()
		}
	}
	return &RecordNotFoundError{ID: id}
}

func (s *MemoryStore) AppendRecords(_ context.Context, records []types.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		for _, existing := range s.data.Records {
			if existing.ID == rec.ID {
				return fmt.Errorf("content record %s already exists", rec.ID)
			}
		}
	}
	s.data.Records = append(s.data.Records, records...)
	return s.save()
}

func (s *MemoryStore) ReadWeeklyPlan(_ context.Context, week string) (*types.WeeklyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, plan := range s.data.Plans {
		if plan.Week == week {
			p := plan
			return &p, nil
		}
	}
	return nil, &PlanNotFoundError{Week: week}
}

func (s *MemoryStore) AppendTopics(_ context.Context, category string, topics []types.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range topics {
		s.data.Topics = append(s.data.Topics, PoolEntry{
			Category:    category,
			Keyword:     t.Keyword,
			Description: t.Description,
			Status:      TopicUnused,
		})
	}
	return s.save()
}

// save writes the snapshot atomically. Callers hold mu.
func (s *MemoryStore) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
