package middleware

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	appErrors "remindbridge/internal/pkg/errors"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// HeaderAPIKey carries the shared cache API key.
const HeaderAPIKey = "X-Api-Key"

// APIKey rejects requests whose key does not exactly match expected. The key
// is taken from the X-Api-Key header, the apiKey query parameter or the apiKey
// field of a JSON body. An empty expected key rejects everything.
func APIKey(expected string) echo.MiddlewareFunc {
	keyAuth := echoMiddleware.KeyAuthWithConfig(echoMiddleware.KeyAuthConfig{
		KeyLookup: "header:" + HeaderAPIKey + ",query:apiKey",
		Validator: func(key string, c echo.Context) (bool, error) {
			if expected == "" {
				return false, nil
			}
			return subtle.ConstantTimeCompare([]byte(key), []byte(expected)) == 1, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return appErrors.Unauthorized("unauthorized: invalid or missing API key")
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return liftBodyKey(keyAuth(next))
	}
}

// liftBodyKey copies apiKey from a JSON body into the header so KeyAuth can see
// it. The whole body is buffered and restored for the handler; its size is
// bounded by the router's BodyLimit.
func liftBodyKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.Header.Get(HeaderAPIKey) != "" || req.Body == nil || req.Method == http.MethodGet {
			return next(c)
		}
		if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
			return next(c)
		}

		body, err := io.ReadAll(req.Body)
		if err != nil {
			return appErrors.Validation("failed to read request body")
		}
		req.Body = io.NopCloser(bytes.NewReader(body))

		var payload struct {
			APIKey string `json:"apiKey"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.APIKey != "" {
			req.Header.Set(HeaderAPIKey, payload.APIKey)
		}
		return next(c)
	}
}
