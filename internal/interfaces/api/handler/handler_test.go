package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// mockReminderService implements service.ReminderService with function fields.
type mockReminderService struct {
	processFunc func(ctx context.Context, userID string) (*dto.ProcessResult, error)
	createFunc  func(ctx context.Context, req dto.CreateReminderRequest) (*dto.ReminderResponse, error)
	listFunc    func(ctx context.Context, userID string) ([]dto.ReminderResponse, error)
}

func (m *mockReminderService) ProcessTodayReminders(ctx context.Context, userID string) (*dto.ProcessResult, error) {
	return m.processFunc(ctx, userID)
}

func (m *mockReminderService) CreateReminder(ctx context.Context, req dto.CreateReminderRequest) (*dto.ReminderResponse, error) {
	return m.createFunc(ctx, req)
}

func (m *mockReminderService) ListReminders(ctx context.Context, userID string) ([]dto.ReminderResponse, error) {
	return m.listFunc(ctx, userID)
}

// mockCacheService implements service.CacheService with function fields.
type mockCacheService struct {
	calls              int
	revalidateTagFunc  func(ctx context.Context, tag string) (int, error)
	revalidateTagsFunc func(ctx context.Context, tags []string) (*dto.RevalidateResult, error)
	allTagsFunc        func(ctx context.Context) ([]string, error)
	cacheStatsFunc     func(ctx context.Context, tag string) (*dto.CacheStats, error)
}

func (m *mockCacheService) RevalidateTag(ctx context.Context, tag string) (int, error) {
	m.calls++
	return m.revalidateTagFunc(ctx, tag)
}

func (m *mockCacheService) RevalidateTags(ctx context.Context, tags []string) (*dto.RevalidateResult, error) {
	m.calls++
	return m.revalidateTagsFunc(ctx, tags)
}

func (m *mockCacheService) GetAllTags(ctx context.Context) ([]string, error) {
	m.calls++
	return m.allTagsFunc(ctx)
}

func (m *mockCacheService) GetTagStats(ctx context.Context, tag string) (*dto.TagStats, error) {
	m.calls++
	return nil, nil
}

func (m *mockCacheService) GetCacheStats(ctx context.Context, tag string) (*dto.CacheStats, error) {
	m.calls++
	return m.cacheStatsFunc(ctx, tag)
}

// mockDeliveryService implements service.DeliveryService.
type mockDeliveryService struct {
	deliverFunc func(ctx context.Context, job dto.ReminderJobData) (*dto.DeliveryResult, error)
}

func (m *mockDeliveryService) DeliverReminder(ctx context.Context, job dto.ReminderJobData) (*dto.DeliveryResult, error) {
	return m.deliverFunc(ctx, job)
}

type echoHandle struct {
	*echo.Echo
}

func (h *echoHandle) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	return doRequest(h.Echo, method, target, body, headers)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(logger.Nop())
	return e
}

func doRequest(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
