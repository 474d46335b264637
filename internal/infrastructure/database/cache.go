package database

import (
	"context"
	"errors"
	"fmt"

	"remindbridge/internal/domain/entity"
	"remindbridge/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tagCacheStore struct {
	db *gorm.DB
}

// NewTagCacheStore creates a TagCacheStore on the cache_entries and cache_entry_tags tables.
func NewTagCacheStore(db *gorm.DB) repository.TagCacheStore {
	return &tagCacheStore{db: db}
}

// Put replaces the entry and its tag links in a single transaction.
func (s *tagCacheStore) Put(ctx context.Context, entry *entity.CacheEntry, tags []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", entry.Key).Delete(&entity.CacheEntryTag{}).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(entry).Error; err != nil {
			return err
		}
		links := make([]entity.CacheEntryTag, 0, len(tags))
		seen := make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			links = append(links, entity.CacheEntryTag{Tag: tag, Key: entry.Key})
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		return fmt.Errorf("failed to put cache entry %s: %w", entry.Key, err)
	}
	return nil
}

// Get returns the entry stored under key, or nil when there is none.
func (s *tagCacheStore) Get(ctx context.Context, key string) (*entity.CacheEntry, error) {
	var entry entity.CacheEntry
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache entry %s: %w", key, err)
	}
	return &entry, nil
}

// DeleteTag removes all entries carrying tag together with every tag link of
// those entries. Either all of them go or none do.
func (s *tagCacheStore) DeleteTag(ctx context.Context, tag string) (int, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taggedKeys := func() *gorm.DB {
			return tx.Model(&entity.CacheEntryTag{}).Select("key").Where("tag = ?", tag)
		}

		result := tx.Where("key IN (?)", taggedKeys()).Delete(&entity.CacheEntry{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		// Links of the removed entries, including their other tags.
		return tx.Where("key IN (?)", taggedKeys()).Delete(&entity.CacheEntryTag{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache tag %s: %w", tag, err)
	}
	return int(deleted), nil
}

// CountTag returns the number of entries carrying tag.
func (s *tagCacheStore) CountTag(ctx context.Context, tag string) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&entity.CacheEntryTag{}).
		Where("tag = ?", tag).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cache tag %s: %w", tag, err)
	}
	return int(count), nil
}

// Tags lists every tag currently indexed.
func (s *tagCacheStore) Tags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := s.db.WithContext(ctx).
		Model(&entity.CacheEntryTag{}).
		Distinct().
		Order("tag asc").
		Pluck("tag", &tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list cache tags: %w", err)
	}
	return tags, nil
}
