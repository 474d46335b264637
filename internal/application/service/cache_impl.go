package service

import (
	"context"
	"fmt"
	"strings"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/domain/repository"
	appErrors "remindbridge/internal/pkg/errors"
	"remindbridge/internal/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const defaultStatsConcurrency = 8

type cacheService struct {
	store       repository.TagCacheStore
	concurrency int
	log         logger.Logger
}

// NewCacheService creates a new instance of CacheService implementation.
// concurrency bounds the parallel tag lookups of GetCacheStats.
func NewCacheService(store repository.TagCacheStore, concurrency int, log logger.Logger) CacheService {
	if concurrency <= 0 {
		concurrency = defaultStatsConcurrency
	}
	return &cacheService{store: store, concurrency: concurrency, log: log}
}

func (s *cacheService) RevalidateTag(ctx context.Context, tag string) (int, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return 0, appErrors.Validation("tag must be a non-empty string")
	}
	deleted, err := s.store.DeleteTag(ctx, tag)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to revalidate tag %s", tag), err)
		return 0, appErrors.Upstream(err, "failed to revalidate tag %s", tag)
	}
	s.log.Info(fmt.Sprintf("Revalidated tag %s (%d entries)", tag, deleted))
	return deleted, nil
}

func (s *cacheService) RevalidateTags(ctx context.Context, tags []string) (*dto.RevalidateResult, error) {
	if len(tags) == 0 {
		return nil, appErrors.Validation("at least one tag is required")
	}

	result := &dto.RevalidateResult{Tags: tags}
	for _, tag := range tags {
		deleted, err := s.RevalidateTag(ctx, tag)
		if err != nil {
			result.Errors = append(result.Errors, dto.TagError{Tag: tag, Error: err.Error()})
			continue
		}
		result.Revalidated += deleted
	}
	return result, nil
}

func (s *cacheService) GetAllTags(ctx context.Context) ([]string, error) {
	tags, err := s.store.Tags(ctx)
	if err != nil {
		s.log.Error("Failed to list cache tags", err)
		return nil, appErrors.Upstream(err, "failed to list cache tags")
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (s *cacheService) GetTagStats(ctx context.Context, tag string) (*dto.TagStats, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, appErrors.Validation("tag must be a non-empty string")
	}
	count, err := s.store.CountTag(ctx, tag)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to count tag %s", tag), err)
		return nil, appErrors.Upstream(err, "failed to read stats for tag %s", tag)
	}
	return &dto.TagStats{Tag: tag, Count: count}, nil
}

func (s *cacheService) GetCacheStats(ctx context.Context, tag string) (*dto.CacheStats, error) {
	if tag = strings.TrimSpace(tag); tag != "" {
		stats, err := s.GetTagStats(ctx, tag)
		if err != nil {
			return nil, err
		}
		return &dto.CacheStats{TotalTags: 1, TotalCacheEntries: stats.Count, Tags: []dto.TagStats{*stats}}, nil
	}

	tags, err := s.GetAllTags(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]dto.TagStats, len(tags))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, t := range tags {
		g.Go(func() error {
			st, err := s.GetTagStats(gctx, t)
			if err != nil {
				return err
			}
			stats[i] = *st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, appErrors.Upstream(err, "failed to collect cache stats")
	}

	total := 0
	for _, st := range stats {
		total += st.Count
	}
	return &dto.CacheStats{TotalTags: len(tags), TotalCacheEntries: total, Tags: stats}, nil
}
