package service

import (
	"context"

	"remindbridge/internal/application/dto"
)

// CacheService manages tag-based invalidation of the response cache.
type CacheService interface {
	// RevalidateTag deletes every entry carrying tag and returns how many went.
	RevalidateTag(ctx context.Context, tag string) (int, error)
	// RevalidateTags revalidates each tag independently and collects per-tag failures.
	RevalidateTags(ctx context.Context, tags []string) (*dto.RevalidateResult, error)
	// GetAllTags lists the tags currently indexed.
	GetAllTags(ctx context.Context) ([]string, error)
	// GetTagStats counts the entries carrying tag.
	GetTagStats(ctx context.Context, tag string) (*dto.TagStats, error)
	// GetCacheStats reports one tag, or every tag when tag is empty.
	GetCacheStats(ctx context.Context, tag string) (*dto.CacheStats, error)
}
