package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/pkg/logger"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

type enqueueResponse struct {
	JobID string `json:"jobId"`
	Error string `json:"error,omitempty"`
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	RatePerSec float64
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client submits jobs to the HTTP job queue.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     logger.Logger
}

// NewClient creates a queue client. Outbound calls share one rate limiter.
func NewClient(opts Options, log logger.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	ratePerSec := opts.RatePerSec
	if ratePerSec <= 0 {
		ratePerSec = 10
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
		log:     log,
	}
}

// Enqueue posts the job and returns the queue-assigned job id.
func (c *Client) Enqueue(ctx context.Context, req dto.EnqueueRequest) (string, error) {
	if c.baseURL == "" {
		return "", errors.New("queue base url is not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "enqueue rate limit wait")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "marshal enqueue request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/enqueue", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build enqueue request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "enqueue request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, "read enqueue response")
	}

	var decoded enqueueResponse
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := decoded.Error
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return "", errors.Errorf("enqueue rejected with status %d: %s", resp.StatusCode, msg)
	}
	if decoded.JobID == "" {
		return "", errors.New("enqueue response missing jobId")
	}

	c.log.Debug("job enqueued", "job_id", decoded.JobID, "path", req.Path)
	return decoded.JobID, nil
}
