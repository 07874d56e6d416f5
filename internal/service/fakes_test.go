package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"attachapi/internal/model"
	"attachapi/internal/repository"
)

// memEntities is an in-memory repository.EntityRepository.
type memEntities struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]model.Entity
}

func newMemEntities(ents ...model.Entity) *memEntities {
	m := &memEntities{nextID: 1000, rows: make(map[int64]model.Entity)}
	for _, e := range ents {
		m.rows[e.ID] = e
	}
	return m
}

func (m *memEntities) Create(_ context.Context, e *model.Entity) (*model.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	stored := *e
	stored.ID = m.nextID
	m.rows[stored.ID] = stored
	return &stored, nil
}

func (m *memEntities) FindByID(_ context.Context, id int64) (*model.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &e, nil
}

// FindByIDs answers in reverse order so callers cannot rely on it.
func (m *memEntities) FindByIDs(_ context.Context, kind string, ids []int64) ([]model.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Entity, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if e, ok := m.rows[ids[i]]; ok && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEntities) List(_ context.Context, kind string, pq repository.PageQuery) (*repository.PageResult[model.Entity], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]model.Entity, 0)
	for _, e := range m.rows {
		if e.Kind == kind {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	res := &repository.PageResult[model.Entity]{Items: []model.Entity{}, Total: len(all)}
	if pq.Offset < len(all) {
		end := min(pq.Offset+pq.Limit, len(all))
		res.Items = all[pq.Offset:end]
	}
	return res, nil
}

func (m *memEntities) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// memMeta is an in-memory repository.MetaRepository that counts writes.
type memMeta struct {
	mu     sync.Mutex
	rows   map[int64]map[string][]string
	writes int
}

func newMemMeta() *memMeta {
	return &memMeta{rows: make(map[int64]map[string][]string)}
}

func (m *memMeta) put(id int64, key string, values ...string) *memMeta {
	if m.rows[id] == nil {
		m.rows[id] = make(map[string][]string)
	}
	m.rows[id][key] = append(m.rows[id][key], values...)
	return m
}

func (m *memMeta) value(id int64, key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if vs := m.rows[id][key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (m *memMeta) values(id int64, key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.rows[id][key]...)
}

func (m *memMeta) Get(_ context.Context, id int64, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if vs := m.rows[id][key]; len(vs) > 0 {
		return vs[0], true, nil
	}
	return "", false, nil
}

func (m *memMeta) GetAll(_ context.Context, id int64, key string) ([]string, error) {
	return m.values(id, key), nil
}

func (m *memMeta) GetMany(_ context.Context, ids []int64, key string) (map[int64]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if vs := m.rows[id][key]; len(vs) > 0 {
			out[id] = vs[0]
		}
	}
	return out, nil
}

func (m *memMeta) Set(_ context.Context, id int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.rows[id] == nil {
		m.rows[id] = make(map[string][]string)
	}
	m.rows[id][key] = []string{value}
	return nil
}

func (m *memMeta) Add(_ context.Context, id int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.put(id, key, value)
	return nil
}

func (m *memMeta) DeleteValue(_ context.Context, id int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	kept := m.rows[id][key][:0]
	for _, v := range m.rows[id][key] {
		if v != value {
			kept = append(kept, v)
		}
	}
	if m.rows[id] != nil {
		m.rows[id][key] = kept
	}
	return nil
}

func (m *memMeta) Replace(_ context.Context, id int64, key string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.rows[id] == nil {
		m.rows[id] = make(map[string][]string)
	}
	m.rows[id][key] = append([]string(nil), values...)
	return nil
}

func (m *memMeta) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
