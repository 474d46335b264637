package middleware

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"time"

	"remindbridge/internal/domain/entity"
	"remindbridge/internal/domain/repository"
	"remindbridge/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HeaderCache reports whether a response came from the cache.
const HeaderCache = "X-Cache"

// ResponseCacheConfig configures ResponseCache.
type ResponseCacheConfig struct {
	Store repository.TagCacheStore
	TTL   time.Duration
	// Tags returns the tags a response is stored under. No tags means the
	// request is not cached.
	Tags func(c echo.Context) []string
	// ScopeHeader is folded into the cache key so that responses for
	// different callers never collide.
	ScopeHeader string
	Logger      logger.Logger
	Now         func() time.Time
}

// ResponseCache serves GET responses from the tag cache store and stores
// successful ones. Store failures are logged and the request proceeds.
func ResponseCache(config ResponseCacheConfig) echo.MiddlewareFunc {
	if config.Now == nil {
		config.Now = time.Now
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet {
				return next(c)
			}
			tags := config.Tags(c)
			if len(tags) == 0 {
				return next(c)
			}

			ctx := req.Context()
			key := cacheKey(req, config.ScopeHeader)

			entry, err := config.Store.Get(ctx, key)
			if err != nil {
				config.Logger.Warn("response cache lookup failed", "key", key, "error", err.Error())
			} else if entry != nil && !entry.Expired(config.Now()) {
				c.Response().Header().Set(HeaderCache, "HIT")
				return c.Blob(entry.StatusCode, entry.ContentType, entry.Value)
			}

			c.Response().Header().Set(HeaderCache, "MISS")
			buf := new(bytes.Buffer)
			writer := &captureWriter{Writer: io.MultiWriter(c.Response().Writer, buf), ResponseWriter: c.Response().Writer}
			c.Response().Writer = writer

			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status != http.StatusOK {
				return nil
			}

			now := config.Now()
			stored := &entity.CacheEntry{
				Key:         key,
				Value:       buf.Bytes(),
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				StatusCode:  http.StatusOK,
				ExpiresAt:   now.Add(config.TTL),
				CreatedAt:   now,
			}
			if err := config.Store.Put(ctx, stored, tags); err != nil {
				config.Logger.Warn("response cache store failed", "key", key, "error", err.Error())
			}
			return nil
		}
	}
}

// cacheKey is method, path, the encoded query (sorted by key) and the scope header value.
func cacheKey(req *http.Request, scopeHeader string) string {
	key := req.Method + " " + req.URL.Path
	if q := req.URL.Query(); len(q) > 0 {
		key += "?" + q.Encode()
	}
	if scopeHeader != "" {
		key += "|" + req.Header.Get(scopeHeader)
	}
	return key
}

type captureWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *captureWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *captureWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *captureWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(w.ResponseWriter).Hijack()
}
