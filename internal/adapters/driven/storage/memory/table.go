package memory

import (
	"sort"
	"sync"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// tenantTable is a tenant-scoped map of rows keyed by ID.
// Rows of another tenant are invisible to get, list and remove.
type tenantTable[T any] struct {
	mu     sync.RWMutex
	rows   map[string]T
	id     func(*T) string
	tenant func(*T) string
	less   func(a, b *T) bool
	clone  func(T) T
}

func newTenantTable[T any](id, tenant func(*T) string, less func(a, b *T) bool) *tenantTable[T] {
	return &tenantTable[T]{
		rows:   make(map[string]T),
		id:     id,
		tenant: tenant,
		less:   less,
		clone:  func(v T) T { return v },
	}
}

func (t *tenantTable[T]) put(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[t.id(&v)] = t.clone(v)
}

func (t *tenantTable[T]) get(tenantID, id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok || t.tenant(&v) != tenantID {
		return nil, domain.ErrNotFound
	}
	v = t.clone(v)
	return &v, nil
}

// find returns the first row of the tenant matching keep.
func (t *tenantTable[T]) find(tenantID string, keep func(*T) bool) (*T, error) {
	rows := t.filter(tenantID, keep)
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return &rows[0], nil
}

// filter returns the tenant's rows matching keep, sorted. An empty tenantID matches all tenants.
func (t *tenantTable[T]) filter(tenantID string, keep func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]T, 0)
	for _, v := range t.rows {
		if tenantID != "" && t.tenant(&v) != tenantID {
			continue
		}
		if keep != nil && !keep(&v) {
			continue
		}
		result = append(result, t.clone(v))
	}
	sort.Slice(result, func(i, j int) bool { return t.less(&result[i], &result[j]) })
	return result
}

func (t *tenantTable[T]) remove(tenantID, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.rows[id]; ok && t.tenant(&v) == tenantID {
		delete(t.rows, id)
	}
}

// removeWhere deletes every row of the tenant matching match.
func (t *tenantTable[T]) removeWhere(tenantID string, match func(*T) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, v := range t.rows {
		if t.tenant(&v) == tenantID && match(&v) {
			delete(t.rows, id)
		}
	}
}
