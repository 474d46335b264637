package service

import (
	"context"
	"errors"
	"testing"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/domain/constant"
	"remindbridge/internal/domain/entity"
	appErrors "remindbridge/internal/pkg/errors"
	"remindbridge/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	calls    int
	to, body string
	err      error
}

func (s *fakeSender) SendMessage(_ context.Context, to, body string) (string, error) {
	s.calls++
	s.to, s.body = to, body
	if s.err != nil {
		return "", s.err
	}
	return "SM123", nil
}

type upperComposer struct{}

func (upperComposer) ComposeReminder(_ context.Context, userName, plain string) string {
	return "[" + userName + "] " + plain
}

func newDeliveryFixture(t *testing.T, reminders ...*entity.Reminder) (*deliveryService, *fakeSender, *fakeInvalidator, func(string) *entity.Reminder) {
	t.Helper()
	repo := newTestRepo(t)
	seed(t, repo, reminders...)

	sender := &fakeSender{}
	cache := &fakeInvalidator{}
	svc := NewDeliveryService(testConfig(), repo, sender, upperComposer{}, cache, logger.Nop()).(*deliveryService)
	svc.now = fixedClock(testNow)
	return svc, sender, cache, func(id string) *entity.Reminder { return mustFind(t, repo, id) }
}

func jobFor(id string) dto.ReminderJobData {
	return dto.ReminderJobData{
		ReminderID: id,
		UserID:     "u1",
		SessionID:  "session-1",
		UserName:   "Ana",
		UserPhone:  "+5511999990001",
		Message:    "Hi Ana, a reminder for today: Pay rent",
	}
}

func TestDeliverReminder_Sends(t *testing.T) {
	svc, sender, cache, find := newDeliveryFixture(t,
		&entity.Reminder{ID: "r1", UserID: "u1", Note: "Pay rent", EventDate: testMidnight, Status: constant.StatusProcessing, UserName: "Ana"},
	)

	result, err := svc.DeliverReminder(context.Background(), jobFor("r1"))
	require.NoError(t, err)

	assert.Equal(t, "SM123", result.MessageSID)
	assert.False(t, result.AlreadySent)
	assert.Equal(t, "+5511999990001", sender.to)
	assert.Equal(t, "[Ana] Hi Ana, a reminder for today: Pay rent", sender.body)

	r1 := find("r1")
	assert.Equal(t, constant.StatusSent, r1.Status)
	require.NotNil(t, r1.SentAt)
	assert.True(t, r1.SentAt.Equal(testNow))
	assert.Equal(t, []string{"reminders:u1"}, cache.tags)
}

func TestDeliverReminder_AlreadySent(t *testing.T) {
	svc, sender, _, _ := newDeliveryFixture(t,
		&entity.Reminder{ID: "r1", UserID: "u1", Note: "Pay rent", EventDate: testMidnight, Status: constant.StatusSent},
	)

	result, err := svc.DeliverReminder(context.Background(), jobFor("r1"))
	require.NoError(t, err)
	assert.True(t, result.AlreadySent)
	assert.Zero(t, sender.calls)
}

func TestDeliverReminder_Rejects(t *testing.T) {
	svc, sender, _, _ := newDeliveryFixture(t,
		&entity.Reminder{ID: "pending", UserID: "u1", Note: "a", EventDate: testMidnight},
		&entity.Reminder{ID: "other", UserID: "u2", Note: "b", EventDate: testMidnight, Status: constant.StatusProcessing},
	)

	tests := map[string]struct {
		job  dto.ReminderJobData
		want error
	}{
		"Pending":      {jobFor("pending"), appErrors.ErrValidation},
		"WrongUser":    {jobFor("other"), appErrors.ErrValidation},
		"Missing":      {jobFor("missing"), appErrors.ErrNotFound},
		"NoReminderID": {jobFor(""), appErrors.ErrValidation},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.DeliverReminder(context.Background(), tc.job)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Zero(t, sender.calls)
}

func TestDeliverReminder_SendFailureKeepsProcessing(t *testing.T) {
	svc, sender, cache, find := newDeliveryFixture(t,
		&entity.Reminder{ID: "r1", UserID: "u1", Note: "Pay rent", EventDate: testMidnight, Status: constant.StatusProcessing},
	)
	sender.err = errors.New("twilio down")

	_, err := svc.DeliverReminder(context.Background(), jobFor("r1"))
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	r1 := find("r1")
	assert.Equal(t, constant.StatusProcessing, r1.Status)
	assert.Nil(t, r1.SentAt)
	assert.Empty(t, cache.tags)

	sender.err = nil
	result, err := svc.DeliverReminder(context.Background(), jobFor("r1"))
	require.NoError(t, err, "a released reminder can be delivered on retry")
	assert.Equal(t, "SM123", result.MessageSID)
	assert.Equal(t, 2, sender.calls)
}

func TestDeliverReminder_StaleReadSendsOnce(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, &entity.Reminder{ID: "r1", UserID: "u1", Note: "Pay rent", EventDate: testMidnight, Status: constant.StatusProcessing})
	snapshot := mustFind(t, repo, "r1")
	// Both deliveries read the reminder before either has written it.
	stub := &stubRepo{
		ReminderRepository: repo,
		findByIDFunc: func(context.Context, string) (*entity.Reminder, error) {
			r := *snapshot
			return &r, nil
		},
	}
	sender := &fakeSender{}
	svc := NewDeliveryService(testConfig(), stub, sender, nil, &fakeInvalidator{}, logger.Nop()).(*deliveryService)
	svc.now = fixedClock(testNow)

	first, err := svc.DeliverReminder(context.Background(), jobFor("r1"))
	require.NoError(t, err)
	second, err := svc.DeliverReminder(context.Background(), jobFor("r1"))
	require.NoError(t, err)

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "SM123", first.MessageSID)
	assert.True(t, second.AlreadySent)
	assert.Equal(t, constant.StatusSent, mustFind(t, repo, "r1").Status)
}

func TestDeliverReminder_BuildsMessageWhenMissing(t *testing.T) {
	svc, sender, _, _ := newDeliveryFixture(t,
		&entity.Reminder{ID: "r1", UserID: "u1", Note: "Dentist", EventDate: testNow, Status: constant.StatusProcessing, UserName: "Ana"},
	)
	job := jobFor("r1")
	job.Message = ""

	_, err := svc.DeliverReminder(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "[Ana] Hi Ana, a reminder for 10:00: Dentist", sender.body)
}
