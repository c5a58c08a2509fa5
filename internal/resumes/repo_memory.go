package resumes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	resumes map[string]Resume
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{resumes: make(map[string]Resume), now: time.Now}
}

func (r *MemoryRepo) Insert(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	resume = resume.Clone()
	resume.ID = uuid.NewString()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	r.resumes[resume.ID] = resume
	return resume.Clone(), nil
}

func (r *MemoryRepo) FindOwned(ctx context.Context, key OwnerKey) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.lookup(key)
	if !ok {
		return Resume{}, ErrNotFound
	}
	return resume.Clone(), nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, userID string) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Summary, 0)
	for _, resume := range r.resumes {
		if resume.UserID == userID {
			out = append(out, resume.Summary())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) ReplaceOwned(ctx context.Context, key OwnerKey, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.lookup(key)
	if !ok {
		return Resume{}, ErrNotFound
	}
	resume = resume.Clone()
	resume.ID = existing.ID
	resume.UserID = existing.UserID
	resume.CreatedAt = existing.CreatedAt
	resume.UpdatedAt = r.now().UTC()
	if !resume.UpdatedAt.After(existing.UpdatedAt) {
		resume.UpdatedAt = existing.UpdatedAt.Add(time.Microsecond)
	}
	r.resumes[resume.ID] = resume
	return resume.Clone(), nil
}

func (r *MemoryRepo) DeleteOwned(ctx context.Context, key OwnerKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lookup(key); !ok {
		return ErrNotFound
	}
	delete(r.resumes, key.ID)
	return nil
}

func (r *MemoryRepo) CountFileReferences(ctx context.Context, urlSuffix, excludeID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if urlSuffix == "" {
		return 0, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for id, resume := range r.resumes {
		if id == excludeID {
			continue
		}
		for _, link := range resume.FileLinks() {
			if link != "" && strings.HasSuffix(link, urlSuffix) {
				n++
				break
			}
		}
	}
	return n, nil
}

// lookup applies the owner filter. Callers hold r.mu.
func (r *MemoryRepo) lookup(key OwnerKey) (Resume, bool) {
	resume, ok := r.resumes[key.ID]
	if !ok || resume.UserID != key.UserID {
		return Resume{}, false
	}
	return resume, true
}

var _ Repo = (*MemoryRepo)(nil)
