package orders

import (
	"sync"

	"printpod/internal/logger"
	"printpod/internal/models"
)

// LookupIndex resolves local order item ids from Print.com order item
// numbers. The mapping is write-once per order item, so resolved entries
// are cached without invalidation.
type LookupIndex struct {
	store  *Store
	logger *logger.Logger

	mu    sync.RWMutex
	cache map[string]string
}

func NewLookupIndex(store *Store, logger *logger.Logger) *LookupIndex {
	return &LookupIndex{
		store:  store,
		logger: logger,
		cache:  make(map[string]string),
	}
}

// ResolveOrderItemID returns the local order item id for a remote order
// item number, or ("", false) when no item carries that number.
func (l *LookupIndex) ResolveOrderItemID(orderItemNumber string) (string, bool) {
	l.mu.RLock()
	cached, ok := l.cache[orderItemNumber]
	l.mu.RUnlock()
	if ok {
		return cached, true
	}

	orderItemID, err := l.store.FindOrderItemIDByMeta(models.MetaOrderItemNumber, orderItemNumber)
	if err != nil {
		l.logger.Error("order item lookup for %s failed: %v", orderItemNumber, err)
		return "", false
	}
	if orderItemID == "" {
		return "", false
	}

	l.mu.Lock()
	l.cache[orderItemNumber] = orderItemID
	l.mu.Unlock()

	return orderItemID, true
}
