// Package cache holds short-lived JSON copies of read-mostly query results.
package cache

import (
	"context"
	"time"

	"github.com/yoockh/ayuda/internal/models"
)

// Cache misses report hit=false with a nil error. Implementations are safe
// for concurrent use.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

const summaryListKey = "summaries:list"

// SummaryList is the cached newest-first summary listing. Every saved
// summary drops it, so a hit is never older than ttl. A nil backend turns
// every call into a miss.
type SummaryList struct {
	c   Cache
	ttl time.Duration
}

func NewSummaryList(c Cache, ttl time.Duration) *SummaryList {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SummaryList{c: c, ttl: ttl}
}

func (l *SummaryList) Load(ctx context.Context) ([]models.Summary, bool, error) {
	if l == nil || l.c == nil {
		return nil, false, nil
	}
	var rows []models.Summary
	hit, err := l.c.GetJSON(ctx, summaryListKey, &rows)
	if err != nil || !hit {
		return nil, false, err
	}
	return rows, true, nil
}

func (l *SummaryList) Store(ctx context.Context, rows []models.Summary) error {
	if l == nil || l.c == nil {
		return nil
	}
	if rows == nil {
		rows = []models.Summary{}
	}
	return l.c.SetJSON(ctx, summaryListKey, rows, l.ttl)
}

func (l *SummaryList) Invalidate(ctx context.Context) error {
	if l == nil || l.c == nil {
		return nil
	}
	return l.c.Del(ctx, summaryListKey)
}
