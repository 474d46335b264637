package handler

import (
	"net/http"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/application/service"
	"remindbridge/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ActionHandler serves the callbacks made by the job queue.
type ActionHandler struct {
	deliveryService service.DeliveryService
	log             logger.Logger
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(deliveryService service.DeliveryService, log logger.Logger) *ActionHandler {
	return &ActionHandler{deliveryService: deliveryService, log: log}
}

// SendReminder handles POST /actions/send-reminder.
func (h *ActionHandler) SendReminder(c echo.Context) error {
	var job dto.ReminderJobData
	if err := bindJSON(c, &job); err != nil {
		return err
	}
	result, err := h.deliveryService.DeliverReminder(c.Request().Context(), job)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{
		"reminderId":  result.ReminderID,
		"messageSid":  result.MessageSID,
		"alreadySent": result.AlreadySent,
	})
}
