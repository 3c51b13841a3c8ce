package memory

import (
	"time"

	"ai-docchat-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SelectionRepository holds pending document selections per session. Entries
// expire on their own: a user who never answers the disambiguation prompt
// should not be stuck in selection mode forever.
type SelectionRepository struct {
	cache *cache.Cache
}

func NewSelectionRepository() *SelectionRepository {
	// Pending selections live 10 minutes; expired items purge every minute.
	c := cache.New(10*time.Minute, 1*time.Minute)
	return &SelectionRepository{
		cache: c,
	}
}

func (r *SelectionRepository) Save(sel *store.PendingSelection) {
	r.cache.Set(sel.SessionID, sel, cache.DefaultExpiration)
}

func (r *SelectionRepository) Get(sessionID string) (*store.PendingSelection, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.PendingSelection), true
	}
	return nil, false
}

func (r *SelectionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
