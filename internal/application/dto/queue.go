package dto

// EnqueueRequest is the body accepted by the job queue's POST /enqueue.
type EnqueueRequest struct {
	Path string `json:"path"`
	Data any    `json:"data"`
	// IdempotencyKey is sent as a header, not in the body.
	IdempotencyKey string `json:"-"`
}
