// Package memory is a map-backed store used by service tests and by
// STORE_DRIVER=memory for local runs without a database.
package memory

import (
	"context"
	"maps"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// Store holds every collection behind one lock
type Store struct {
	mu          sync.RWMutex
	users       map[string]*domain.User
	pending     map[string]*domain.PendingLink
	names       map[string]time.Time
	suggestions map[string]time.Time
	now         func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:       make(map[string]*domain.User),
		pending:     make(map[string]*domain.PendingLink),
		names:       make(map[string]time.Time),
		suggestions: make(map[string]time.Time),
		now:         time.Now,
	}
}

// SetClock overrides the time source, used by tests
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.Discord != nil {
		d := *u.Discord
		c.Discord = &d
	}
	if u.Twitch != nil {
		t := *u.Twitch
		c.Twitch = &t
	}
	if u.Minecraft != nil {
		m := *u.Minecraft
		c.Minecraft = &m
	}
	if u.Steam != nil {
		st := *u.Steam
		c.Steam = &st
	}
	c.Accounts = maps.Clone(u.Accounts)
	return &c
}

// UserRepository implements repository.User
type UserRepository struct{ s *Store }

// PendingLinkRepository implements repository.PendingLink
type PendingLinkRepository struct{ s *Store }

// BeeNameRepository implements repository.BeeName
type BeeNameRepository struct{ s *Store }

// Users returns the user repository view of the store
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// PendingLinks returns the pending link repository view of the store
func (s *Store) PendingLinks() *PendingLinkRepository { return &PendingLinkRepository{s: s} }

// BeeNames returns the bee name repository view of the store
func (s *Store) BeeNames() *BeeNameRepository { return &BeeNameRepository{s: s} }

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// GetByPlatformField returns the oldest matching record
func (r *UserRepository) GetByPlatformField(_ context.Context, platform, field, value string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *domain.User
	for _, u := range r.s.users {
		v, ok := u.FieldValue(platform, field)
		if !ok || v != value {
			continue
		}
		if found == nil || u.CreatedAt.Before(found.CreatedAt) {
			found = u
		}
	}
	if found == nil {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(found), nil
}

func (r *UserRepository) Create(_ context.Context, patch domain.UserPatch) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	u := &domain.User{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	patch.Apply(u)
	r.s.users[u.ID] = cloneUser(u)
	return u, nil
}

func (r *UserRepository) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	updated := cloneUser(u)
	patch.Apply(updated)
	updated.UpdatedAt = r.s.now()
	r.s.users[id] = updated
	return cloneUser(updated), nil
}

// Delete removes the user and cascades to the pending links it holds
func (r *UserRepository) Delete(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	for k, p := range r.s.pending {
		if p.HolderUserID == id {
			delete(r.s.pending, k)
		}
	}
	return u, nil
}

// Len returns the number of stored users
func (r *UserRepository) Len() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users)
}

func pendingKey(holderUserID, targetPlatform string) string {
	return holderUserID + ":" + targetPlatform
}

func (r *PendingLinkRepository) Save(_ context.Context, link *domain.PendingLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[link.HolderUserID]; !ok {
		return domain.ErrUserNotFound
	}

	key := pendingKey(link.HolderUserID, link.TargetPlatform)
	if existing, ok := r.s.pending[key]; ok {
		link.ID = existing.ID
		link.CreatedAt = existing.CreatedAt
	} else {
		if link.ID == "" {
			link.ID = uuid.NewString()
		}
		link.CreatedAt = r.s.now()
	}
	c := *link
	r.s.pending[key] = &c
	return nil
}

func (r *PendingLinkRepository) Get(_ context.Context, holderUserID, targetPlatform string) (*domain.PendingLink, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.pending[pendingKey(holderUserID, targetPlatform)]
	if !ok {
		return nil, domain.ErrPendingLinkNotFound
	}
	c := *p
	return &c, nil
}

func (r *PendingLinkRepository) FindByTarget(_ context.Context, targetPlatform, targetUsername string, now time.Time) (*domain.PendingLink, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *domain.PendingLink
	for _, p := range r.s.pending {
		if p.TargetPlatform != targetPlatform || !strings.EqualFold(p.TargetUsername, targetUsername) || p.IsExpired(now) {
			continue
		}
		if found == nil || p.CreatedAt.After(found.CreatedAt) {
			found = p
		}
	}
	if found == nil {
		return nil, domain.ErrPendingLinkNotFound
	}
	c := *found
	return &c, nil
}

func (r *PendingLinkRepository) Delete(_ context.Context, holderUserID, targetPlatform string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.pending, pendingKey(holderUserID, targetPlatform))
	return nil
}

func (r *PendingLinkRepository) CleanupExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var removed int64
	for k, p := range r.s.pending {
		if p.IsExpired(now) {
			delete(r.s.pending, k)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored pending links
func (r *PendingLinkRepository) Len() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.pending)
}

func (r *BeeNameRepository) Random(_ context.Context) (*domain.BeeName, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if len(r.s.names) == 0 {
		return nil, domain.ErrBeeNameNotFound
	}
	i := rand.IntN(len(r.s.names))
	for name, at := range r.s.names {
		if i == 0 {
			return &domain.BeeName{Name: name, CreatedAt: at}, nil
		}
		i--
	}
	return nil, domain.ErrBeeNameNotFound
}

func (r *BeeNameRepository) Insert(_ context.Context, name string) error {
	return r.insert(r.s.names, name)
}

func (r *BeeNameRepository) Delete(_ context.Context, name string) error {
	return r.remove(r.s.names, name)
}

func (r *BeeNameRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.names)), nil
}

func (r *BeeNameRepository) InsertSuggestion(_ context.Context, name string) error {
	return r.insert(r.s.suggestions, name)
}

func (r *BeeNameRepository) Suggestions(_ context.Context, limit int) ([]domain.BeeNameSuggestion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.BeeNameSuggestion, 0, len(r.s.suggestions))
	for name, at := range r.s.suggestions {
		out = append(out, domain.BeeNameSuggestion{Name: name, SubmittedAt: at})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return strings.Compare(out[i].Name, out[j].Name) < 0
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *BeeNameRepository) AcceptSuggestion(_ context.Context, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.suggestions[name]; !ok {
		return domain.ErrBeeNameNotFound
	}
	delete(r.s.suggestions, name)
	if _, ok := r.s.names[name]; !ok {
		r.s.names[name] = r.s.now()
	}
	return nil
}

func (r *BeeNameRepository) DeleteSuggestion(_ context.Context, name string) error {
	return r.remove(r.s.suggestions, name)
}

func (r *BeeNameRepository) insert(set map[string]time.Time, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := set[name]; ok {
		return domain.ErrBeeNameExists
	}
	set[name] = r.s.now()
	return nil
}

func (r *BeeNameRepository) remove(set map[string]time.Time, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := set[name]; !ok {
		return domain.ErrBeeNameNotFound
	}
	delete(set, name)
	return nil
}
