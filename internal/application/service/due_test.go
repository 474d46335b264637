package service

import (
	"testing"
	"time"

	"remindbridge/internal/domain/constant"
	"remindbridge/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestDayBounds(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	now := time.Date(2026, 10, 19, 16, 30, 0, 0, time.UTC) // 01:30 on the 20th in JST

	start, end := dayBounds(now, jst)

	assert.True(t, start.Equal(time.Date(2026, 10, 20, 0, 0, 0, 0, jst)), "start = %v", start)
	assert.True(t, end.Equal(time.Date(2026, 10, 20, 23, 59, 59, int(999*time.Millisecond), jst)), "end = %v", end)
}

func TestIsDue(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, loc)
	window := 15 * time.Minute

	tests := map[string]struct {
		event time.Time
		want  bool
	}{
		"MidnightIsAllDay":     {time.Date(2026, 10, 19, 0, 0, 0, 0, loc), true},
		"AtNow":                {now, true},
		"WindowUpperInclusive": {now.Add(15 * time.Minute), true},
		"WindowLowerInclusive": {now.Add(-15 * time.Minute), true},
		"TooEarly":             {now.Add(16 * time.Minute), false},
		"TooLate":              {now.Add(-16 * time.Minute), false},
		"OneMillisecondPastMidnight": {
			time.Date(2026, 10, 19, 0, 0, 0, int(time.Millisecond), loc), false,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, isDue(tc.event, now, loc, window))
		})
	}
}

func TestIsAllDay_UsesLocalTimezone(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	localMidnight := time.Date(2026, 10, 19, 0, 0, 0, 0, jst)

	assert.True(t, isAllDay(localMidnight.UTC(), jst))
	assert.False(t, isAllDay(localMidnight, time.UTC))
}

func TestSelectDue_SkipsClaimed(t *testing.T) {
	midnight := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	now := midnight.Add(10 * time.Hour)
	reminders := []*entity.Reminder{
		{ID: "a", EventDate: midnight, Status: constant.StatusPending},
		{ID: "b", EventDate: midnight, Status: constant.StatusProcessing},
		{ID: "c", EventDate: midnight, Status: constant.StatusSent},
		{ID: "d", EventDate: now.Add(time.Hour), Status: constant.StatusPending},
		{ID: "e", EventDate: now.Add(5 * time.Minute), Status: constant.StatusPending},
	}

	due := selectDue(reminders, now, time.UTC, 15*time.Minute)

	ids := make([]string, 0, len(due))
	for _, r := range due {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "e"}, ids)
}
