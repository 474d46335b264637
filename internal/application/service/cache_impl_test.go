package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"remindbridge/internal/domain/entity"
	appErrors "remindbridge/internal/pkg/errors"
	"remindbridge/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTagStore implements repository.TagCacheStore with overridable functions.
type fakeTagStore struct {
	deleteTagFunc func(tag string) (int, error)
	countTagFunc  func(tag string) (int, error)
	tagsFunc      func() ([]string, error)
}

func (f *fakeTagStore) Put(context.Context, *entity.CacheEntry, []string) error { return nil }

func (f *fakeTagStore) Get(context.Context, string) (*entity.CacheEntry, error) { return nil, nil }

func (f *fakeTagStore) DeleteTag(_ context.Context, tag string) (int, error) {
	return f.deleteTagFunc(tag)
}

func (f *fakeTagStore) CountTag(_ context.Context, tag string) (int, error) {
	return f.countTagFunc(tag)
}

func (f *fakeTagStore) Tags(context.Context) ([]string, error) {
	return f.tagsFunc()
}

func TestRevalidateTag_RejectsEmpty(t *testing.T) {
	svc := NewCacheService(&fakeTagStore{}, 0, logger.Nop())

	_, err := svc.RevalidateTag(context.Background(), " ")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRevalidateTags_CollectsFailures(t *testing.T) {
	var seen []string
	store := &fakeTagStore{deleteTagFunc: func(tag string) (int, error) {
		seen = append(seen, tag)
		if tag == "broken" {
			return 0, errors.New("disk full")
		}
		return 2, nil
	}}
	svc := NewCacheService(store, 0, logger.Nop())

	result, err := svc.RevalidateTags(context.Background(), []string{"a", "broken", "b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "broken", "b"}, seen)
	assert.Equal(t, 4, result.Revalidated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "broken", result.Errors[0].Tag)
	assert.Contains(t, result.Errors[0].Error, "disk full")

	_, err = svc.RevalidateTags(context.Background(), nil)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestGetCacheStats_AllTags(t *testing.T) {
	tags := make([]string, 30)
	for i := range tags {
		tags[i] = fmt.Sprintf("tag-%02d", i)
	}

	var inFlight, maxInFlight int32
	store := &fakeTagStore{
		tagsFunc: func() ([]string, error) { return tags, nil },
		countTagFunc: func(tag string) (int, error) {
			n := atomic.AddInt32(&inFlight, 1)
			defer atomic.AddInt32(&inFlight, -1)
			for {
				m := atomic.LoadInt32(&maxInFlight)
				if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			return 3, nil
		},
	}
	svc := NewCacheService(store, 4, logger.Nop())

	stats, err := svc.GetCacheStats(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 30, stats.TotalTags)
	assert.Equal(t, 90, stats.TotalCacheEntries)
	require.Len(t, stats.Tags, 30)
	assert.Equal(t, "tag-00", stats.Tags[0].Tag)
	assert.Equal(t, "tag-29", stats.Tags[29].Tag)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(4))
}

func TestGetCacheStats_SingleTag(t *testing.T) {
	store := &fakeTagStore{
		countTagFunc: func(tag string) (int, error) { return 7, nil },
		tagsFunc: func() ([]string, error) {
			t.Fatal("tags must not be listed when a tag is given")
			return nil, nil
		},
	}
	svc := NewCacheService(store, 0, logger.Nop())

	stats, err := svc.GetCacheStats(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTags)
	assert.Equal(t, 7, stats.TotalCacheEntries)
}

func TestGetCacheStats_FailureFailsCall(t *testing.T) {
	store := &fakeTagStore{
		tagsFunc: func() ([]string, error) { return []string{"a", "b", "c"}, nil },
		countTagFunc: func(tag string) (int, error) {
			if tag == "b" {
				return 0, errors.New("timeout")
			}
			return 1, nil
		},
	}
	svc := NewCacheService(store, 2, logger.Nop())

	_, err := svc.GetCacheStats(context.Background(), "")
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
}

func TestGetAllTags_EmptyIsNotNil(t *testing.T) {
	svc := NewCacheService(&fakeTagStore{tagsFunc: func() ([]string, error) { return nil, nil }}, 0, logger.Nop())

	tags, err := svc.GetAllTags(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}
