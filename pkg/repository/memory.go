package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/syokota-cyber/study-tracker/pkg/model"
)

// Memory is an in-memory RecordStore. Records are copied in and out so callers
// never share state with the store.
type Memory struct {
	mu      sync.RWMutex
	opts    *options
	seq     int64
	records map[model.RecordID]*memoryEntry
}

type memoryEntry struct {
	seq    int64
	record model.Record
}

// NewMemory creates an empty in-memory store
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		opts:    newOptions(opts),
		records: make(map[model.RecordID]*memoryEntry),
	}
}

func (m *Memory) Insert(ctx context.Context, input *model.RecordInput) (model.RecordID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	id := model.RecordID(strconv.FormatInt(m.seq, 10))
	m.records[id] = &memoryEntry{
		seq:    m.seq,
		record: *input.Build(id, m.opts.timestamp()),
	}
	return id, nil
}

func (m *Memory) Get(ctx context.Context, id model.RecordID) (*model.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	record := entry.record
	return &record, nil
}

func (m *Memory) ScanAll(ctx context.Context) ([]*model.Record, error) {
	m.mu.RLock()
	entries := make([]*memoryEntry, 0, len(m.records))
	for _, entry := range m.records {
		copied := *entry
		entries = append(entries, &copied)
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.record.CreatedAt.Equal(b.record.CreatedAt) {
			return a.record.CreatedAt.After(b.record.CreatedAt)
		}
		return a.seq > b.seq
	})

	records := make([]*model.Record, len(entries))
	for i, entry := range entries {
		records[i] = &entry.record
	}
	return records, nil
}

func (m *Memory) Update(ctx context.Context, id model.RecordID, update *model.RecordUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.records[id]
	if !ok {
		return false, nil
	}
	update.Apply(&entry.record, m.opts.timestamp())
	return true, nil
}

func (m *Memory) Delete(ctx context.Context, id model.RecordID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *Memory) Close() error {
	return nil
}
