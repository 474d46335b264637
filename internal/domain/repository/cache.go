package repository

import (
	"context"

	"remindbridge/internal/domain/entity"
)

// TagCacheStore is the key/tag-indexed cache behind response caching and revalidation.
type TagCacheStore interface {
	// Put stores entry under its key, replacing any previous entry and its tags.
	Put(ctx context.Context, entry *entity.CacheEntry, tags []string) error
	// Get returns the entry for key, or nil when absent.
	Get(ctx context.Context, key string) (*entity.CacheEntry, error)
	// DeleteTag removes every entry tagged with tag and returns how many were removed.
	DeleteTag(ctx context.Context, tag string) (int, error)
	// CountTag returns the number of entries currently carrying tag.
	CountTag(ctx context.Context, tag string) (int, error)
	// Tags lists every tag currently indexed.
	Tags(ctx context.Context) ([]string, error)
}
