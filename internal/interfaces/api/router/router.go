package router

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"remindbridge/internal/application/service"
	"remindbridge/internal/domain/repository"
	"remindbridge/internal/interfaces/api/handler"
	apiMiddleware "remindbridge/internal/interfaces/api/middleware"
	"remindbridge/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MaxBodySize caps request bodies before any middleware buffers them.
const MaxBodySize = "8M"

// Config holds the dependencies for the router.
type Config struct {
	ReminderHandler *handler.ReminderHandler
	ActionHandler   *handler.ActionHandler
	CacheHandler    *handler.CacheHandler
	CacheStore      repository.TagCacheStore
	CacheTTL        time.Duration
	CacheAPIKey     string
	Logger          logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.NewErrorHandler(cfg.Logger)

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, redactAPIKey(v.URI), v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(MaxBodySize))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
			handler.HeaderUserID, apiMiddleware.HeaderAPIKey,
		},
		MaxAge: 300,
	}))

	// Routes
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "status": "ok"})
	})

	responseCache := apiMiddleware.ResponseCache(apiMiddleware.ResponseCacheConfig{
		Store:       cfg.CacheStore,
		TTL:         cfg.CacheTTL,
		ScopeHeader: handler.HeaderUserID,
		Logger:      cfg.Logger,
		Tags: func(c echo.Context) []string {
			userID := strings.TrimSpace(c.Request().Header.Get(handler.HeaderUserID))
			if userID == "" {
				return nil
			}
			return []string{service.ReminderListTag(userID)}
		},
	})

	reminders := e.Group("/reminders")
	reminders.POST("/process-today", cfg.ReminderHandler.ProcessToday)
	reminders.GET("", cfg.ReminderHandler.List, responseCache)
	reminders.POST("", cfg.ReminderHandler.Create)

	e.POST(service.SendReminderActionPath, cfg.ActionHandler.SendReminder)

	cache := e.Group("/cache", apiMiddleware.APIKey(cfg.CacheAPIKey))
	cache.POST("/revalidate", cfg.CacheHandler.Revalidate)
	cache.GET("/revalidate", cfg.CacheHandler.ListTags)
	cache.GET("/stats", cfg.CacheHandler.Stats)

	cfg.Logger.Info("Router initialized with routes.")
	return e
}

// redactAPIKey keeps the shared secret out of request logs.
func redactAPIKey(uri string) string {
	i := strings.Index(uri, "apiKey=")
	if i < 0 {
		return uri
	}
	end := strings.IndexByte(uri[i:], '&')
	if end < 0 {
		return uri[:i] + "apiKey=REDACTED"
	}
	return uri[:i] + "apiKey=REDACTED" + uri[i+end:]
}
