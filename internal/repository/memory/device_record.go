package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dtroode/m2m-server/internal/model"
)

var _ model.KeyValue = (*DeviceRecordRepository)(nil)

// DeviceRecordRepository keeps device records in process memory.
type DeviceRecordRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewDeviceRecordRepository() *DeviceRecordRepository {
	return &DeviceRecordRepository{
		records: make(map[string][]byte),
	}
}

func (r *DeviceRecordRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.records[key]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), value...), true, nil
}

func (r *DeviceRecordRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[key] = append([]byte(nil), value...)
	return nil
}

func (r *DeviceRecordRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, key)
	return nil
}

func (r *DeviceRecordRepository) Keys(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.records))
	for key := range r.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}
