package handler

import (
	"errors"
	"fmt"
	"net/http"

	appErrors "remindbridge/internal/pkg/errors"
	"remindbridge/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HeaderUserID identifies the caller of the reminder routes.
const HeaderUserID = "X-User-Id"

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ok writes a success envelope with payload merged in.
func ok(c echo.Context, status int, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

// NewErrorHandler renders every error returned by a handler or middleware as
// {"success": false, "error": message} with the status of its kind.
func NewErrorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		default:
			appErr := appErrors.As(err)
			status = appErr.Status()
			message = appErr.Message
			if status >= http.StatusInternalServerError {
				log.Error(fmt.Sprintf("Request %s %s failed", c.Request().Method, c.Path()), err)
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, errorResponse{Success: false, Error: message})
		}
		if writeErr != nil {
			log.Error("Failed to write error response", writeErr)
		}
	}
}

func bindJSON(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return appErrors.Validation("invalid JSON body")
	}
	return nil
}
