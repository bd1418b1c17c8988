// File: database/repository/catalog/memory.go
package catalogRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"divyajyotisha/models"
)

// In-memory catalog stores, selected by STORAGE_BACKEND=memory. They replace
// the module-level fallback lists of the original dashboard with proper
// repository implementations.

type MemoryAstrologerRepo struct {
	mu    sync.RWMutex
	items map[string]models.Astrologer
	order []string
}

func NewMemoryAstrologerRepo() *MemoryAstrologerRepo {
	return &MemoryAstrologerRepo{items: make(map[string]models.Astrologer)}
}

func (r *MemoryAstrologerRepo) List(ctx context.Context) ([]models.Astrologer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Astrologer, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.items[r.order[i]])
	}
	return out, nil
}

func (r *MemoryAstrologerRepo) GetByID(ctx context.Context, id string) (*models.Astrologer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (r *MemoryAstrologerRepo) Create(ctx context.Context, a *models.Astrologer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Name == a.Name {
			return ErrDuplicateName
		}
	}
	r.items[a.ID] = *a
	r.order = append(r.order, a.ID)
	return nil
}

func (r *MemoryAstrologerRepo) Update(ctx context.Context, a *models.Astrologer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range r.items {
		if id != a.ID && existing.Name == a.Name {
			return ErrDuplicateName
		}
	}
	a.UpdatedAt = time.Now()
	r.items[a.ID] = *a
	return nil
}

func (r *MemoryAstrologerRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type MemoryPujaRepo struct {
	mu    sync.RWMutex
	items map[string]models.Puja
	order []string
}

func NewMemoryPujaRepo() *MemoryPujaRepo {
	return &MemoryPujaRepo{items: make(map[string]models.Puja)}
}

func (r *MemoryPujaRepo) List(ctx context.Context) ([]models.Puja, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Puja, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.items[r.order[i]])
	}
	return out, nil
}

func (r *MemoryPujaRepo) GetByID(ctx context.Context, id string) (*models.Puja, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (r *MemoryPujaRepo) Create(ctx context.Context, p *models.Puja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Name == p.Name {
			return ErrDuplicateName
		}
	}
	r.items[p.ID] = *p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemoryPujaRepo) Update(ctx context.Context, p *models.Puja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range r.items {
		if id != p.ID && existing.Name == p.Name {
			return ErrDuplicateName
		}
	}
	p.UpdatedAt = time.Now()
	r.items[p.ID] = *p
	return nil
}

func (r *MemoryPujaRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type MemoryBannerRepo struct {
	mu    sync.RWMutex
	items map[string]models.Banner
}

func NewMemoryBannerRepo() *MemoryBannerRepo {
	return &MemoryBannerRepo{items: make(map[string]models.Banner)}
}

func (r *MemoryBannerRepo) List(ctx context.Context) ([]models.Banner, error) {
	return r.collect(func(models.Banner) bool { return true }, 0), nil
}

func (r *MemoryBannerRepo) Active(ctx context.Context, limit int) ([]models.Banner, error) {
	return r.collect(func(b models.Banner) bool { return b.IsActive }, limit), nil
}

func (r *MemoryBannerRepo) collect(keep func(models.Banner) bool, limit int) []models.Banner {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Banner
	for _, b := range r.items {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *MemoryBannerRepo) Create(ctx context.Context, b *models.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = *b
	return nil
}

func (r *MemoryBannerRepo) Update(ctx context.Context, b *models.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return ErrNotFound
	}
	b.UpdatedAt = time.Now()
	r.items[b.ID] = *b
	return nil
}

func (r *MemoryBannerRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}
