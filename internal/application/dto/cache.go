package dto

import (
	"strings"

	apperrors "remindbridge/internal/pkg/errors"
)

// TagInput is either a SingleTag or MultipleTags.
type TagInput interface {
	isTagInput()
}

// SingleTag asks to revalidate one tag.
type SingleTag string

// MultipleTags asks to revalidate several tags.
type MultipleTags []string

func (SingleTag) isTagInput()    {}
func (MultipleTags) isTagInput() {}

// ParseTagInput validates the "tag or tags" request shape. Exactly one of the
// two must be present and every tag must be non-empty.
func ParseTagInput(tag *string, tags []string) (TagInput, error) {
	switch {
	case tag != nil && tags != nil:
		return nil, apperrors.Validation("provide either tag or tags, not both")
	case tag != nil:
		t := strings.TrimSpace(*tag)
		if t == "" {
			return nil, apperrors.Validation("tag must be a non-empty string")
		}
		return SingleTag(t), nil
	case tags != nil:
		if len(tags) == 0 {
			return nil, apperrors.Validation("tags must contain at least one tag")
		}
		cleaned := make(MultipleTags, 0, len(tags))
		for i, t := range tags {
			t = strings.TrimSpace(t)
			if t == "" {
				return nil, apperrors.Validation("tags[%d] must be a non-empty string", i)
			}
			cleaned = append(cleaned, t)
		}
		return cleaned, nil
	default:
		return nil, apperrors.Validation("tag or tags is required")
	}
}

// TagError records a tag whose revalidation failed.
type TagError struct {
	Tag   string `json:"tag"`
	Error string `json:"error"`
}

// RevalidateResult summarizes a multi-tag revalidation.
type RevalidateResult struct {
	Revalidated int        `json:"revalidated"`
	Tags        []string   `json:"tags"`
	Errors      []TagError `json:"errors,omitempty"`
}

// TagStats is the current entry count of one tag.
type TagStats struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CacheStats aggregates TagStats over a set of tags.
type CacheStats struct {
	TotalTags         int        `json:"totalTags"`
	TotalCacheEntries int        `json:"totalCacheEntries"`
	Tags              []TagStats `json:"tags"`
}
