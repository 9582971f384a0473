package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/domain/entity"
)

type fakeReportRepository struct {
	transactions  []*entity.Transaction
	basicExpenses []*entity.BasicExpense
	categories    []*entity.Category
	err           error
	// onFetch runs after FindTransactions took its snapshot.
	onFetch func()

	mu    sync.Mutex
	calls int
}

func (r *fakeReportRepository) FindTransactions(_ context.Context, userID uuid.UUID, start, end time.Time, txType *entity.TransactionType) ([]*entity.Transaction, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.Transaction
	for _, t := range r.transactions {
		if t.UserID != userID || t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		if txType != nil && t.Type != *txType {
			continue
		}
		out = append(out, t)
	}
	if r.onFetch != nil {
		r.onFetch()
	}
	return out, nil
}

func (r *fakeReportRepository) FindActiveBasicExpenses(_ context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.BasicExpense, error) {
	var out []*entity.BasicExpense
	for _, b := range r.basicExpenses {
		if b.UserID == userID && b.IsActive && b.Overlaps(start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeReportRepository) FindCategories(_ context.Context, userID uuid.UUID) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memoryCache struct {
	mu       sync.Mutex
	versions map[uuid.UUID]int64
	entries  map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{versions: map[uuid.UUID]int64{}, entries: map[string][]byte{}}
}

func memoryKey(userID uuid.UUID, version int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", userID, version, key)
}

func (c *memoryCache) Get(_ context.Context, userID uuid.UUID, key string, dest any) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	version := c.versions[userID]
	raw, ok := c.entries[memoryKey(userID, version, key)]
	if !ok {
		return version, false, nil
	}
	return version, true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, userID uuid.UUID, version int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memoryKey(userID, version, key)] = raw
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[userID]++
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
