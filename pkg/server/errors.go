package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/foodgram-ops/foodgate/pkg/errors"
	"github.com/foodgram-ops/foodgate/pkg/serializer"
)

// ErrorResponse is the JSON error envelope returned by the gateway for
// requests it rejects itself (rate limits, body caps, panics). Errors
// originating from the upstream pass through untouched or are replaced
// by the static error page, never by this envelope.
type ErrorResponse struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"requestId"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code apperrors.ErrorCode, message string, retryable bool, details map[string]interface{}) {

	requestID := RequestID(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}
