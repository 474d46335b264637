package handler

import (
	"net/http"
	"strings"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/application/service"
	appErrors "remindbridge/internal/pkg/errors"
	"remindbridge/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReminderHandler serves the reminder routes.
type ReminderHandler struct {
	reminderService service.ReminderService
	log             logger.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService service.ReminderService, log logger.Logger) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService, log: log}
}

func userID(c echo.Context) (string, error) {
	id := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
	if id == "" {
		return "", appErrors.Validation("%s header is required", HeaderUserID)
	}
	return id, nil
}

// ProcessToday handles POST /reminders/process-today.
func (h *ReminderHandler) ProcessToday(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	result, err := h.reminderService.ProcessTodayReminders(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// List handles GET /reminders.
func (h *ReminderHandler) List(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	reminders, err := h.reminderService.ListReminders(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"reminders": reminders, "count": len(reminders)})
}

// Create handles POST /reminders. The X-User-Id header fills in a missing userId.
func (h *ReminderHandler) Create(c echo.Context) error {
	var req dto.CreateReminderRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.UserID == "" {
		req.UserID = c.Request().Header.Get(HeaderUserID)
	}
	reminder, err := h.reminderService.CreateReminder(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, echo.Map{"reminder": reminder})
}
