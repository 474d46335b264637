package entity

import "time"

// CacheEntry is a cached HTTP response body addressed by key.
type CacheEntry struct {
	Key         string `gorm:"primaryKey;size:512"`
	Value       []byte
	ContentType string `gorm:"size:128"`
	StatusCode  int
	ExpiresAt   time.Time `gorm:"index"`
	CreatedAt   time.Time
}

// TableName specifies the table name for the CacheEntry entity.
func (CacheEntry) TableName() string {
	return "cache_entries"
}

// Expired reports whether the entry is past its expiry at now.
// A zero ExpiresAt never expires.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// CacheEntryTag links a cache entry to one of its tags.
type CacheEntryTag struct {
	Tag string `gorm:"primaryKey;size:256"`
	Key string `gorm:"primaryKey;size:512;index"`
}

// TableName specifies the table name for the CacheEntryTag entity.
func (CacheEntryTag) TableName() string {
	return "cache_entry_tags"
}
