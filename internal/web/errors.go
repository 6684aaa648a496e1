package web

// errors.go maps request-level failures to JSON responses.
//
// Per-row subscription failures never reach this file; they are part of the
// upload Summary. Only failures that stop a request before any row is
// processed are reported here.
//
// # Error Codes
//
//	FILE001  413  File exceeds the upload size limit
//	FILE002  400  Upload form could not be read
//	FILE004  400  No file uploaded
//	LIST001  400  No Sendy list ID provided
//	LIST002  400  No brand ID provided
//	CFG001   500  Sendy API key or URL missing on the server
//	UPL002   503  Too many uploads in progress
//	UPL004   499  Client went away before processing started
//	UPL005   504  Request timed out before processing started
//	RATE001  429  Too many requests from this client
//	AUTH001  401  Missing API key (written by middleware.APIKeyAuth)
//	AUTH002  403  Invalid API key (written by middleware.APIKeyAuth)
//	ERR000   500  Anything else; check the logs by request_id

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/SendyUpload/internal/logging"
	"github.com/JonMunkholm/SendyUpload/internal/sendy"
	"github.com/JonMunkholm/SendyUpload/internal/upload"
)

var (
	errNoFile       = errors.New("no file uploaded")
	errNoList       = errors.New("no list id provided")
	errNoBrand      = errors.New("no brand id provided")
	errFileTooLarge = errors.New("file too large")
	errInvalidForm  = errors.New("invalid upload form")
	errRateLimited  = errors.New("rate limit exceeded")
)

// statusClientClosedRequest is the de facto status for a request the client
// abandoned. It is only ever logged.
const statusClientClosedRequest = 499

// UserMessage is what a client is told about a failed request.
type UserMessage struct {
	Message string
	Action  string
	Code    string
	Status  int
}

// ErrorResponse is the JSON body of every request-level error. Message keeps
// the wording the original front-end displays.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errorMessages is checked in order with errors.Is; the first match wins.
var errorMessages = []struct {
	target error
	msg    UserMessage
}{
	{errNoFile, UserMessage{"No file uploaded.", "Please select a CSV file to upload", "FILE004", http.StatusBadRequest}},
	{errNoList, UserMessage{"No Sendy List ID provided.", "Choose a list or enter a list ID", "LIST001", http.StatusBadRequest}},
	{errNoBrand, UserMessage{"No brand ID provided.", "Choose a brand first", "LIST002", http.StatusBadRequest}},
	{errFileTooLarge, UserMessage{"File exceeds the maximum upload size.", "Split the file into smaller chunks", "FILE001", http.StatusRequestEntityTooLarge}},
	{errInvalidForm, UserMessage{"The upload form could not be read.", "Submit the form again with a CSV file attached", "FILE002", http.StatusBadRequest}},
	{sendy.ErrMissingConfig, UserMessage{sendy.ErrMissingConfig.Error(), "Set SENDY_API_KEY and SENDY_URL on the server", "CFG001", http.StatusInternalServerError}},
	{upload.ErrTooManyUploads, UserMessage{"System is busy processing other uploads.", "Please wait a moment and try again", "UPL002", http.StatusServiceUnavailable}},
	{context.Canceled, UserMessage{"Request was cancelled.", "Please try again", "UPL004", statusClientClosedRequest}},
	{context.DeadlineExceeded, UserMessage{"Request timed out.", "Try a smaller file or check your connection", "UPL005", http.StatusGatewayTimeout}},
	{errRateLimited, UserMessage{"Too many requests.", "Please wait a moment before trying again", "RATE001", http.StatusTooManyRequests}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred.",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
	Status:  http.StatusInternalServerError,
}

// MapError returns the client-facing message for err.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, m := range errorMessages {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}
	return defaultMessage
}

// respondError logs err with the request context and writes the mapped JSON.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", msg.Status,
		"code", msg.Code,
		"error", err.Error(),
	}
	if msg.Status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	writeJSONStatus(w, r, msg.Status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	writeJSONStatus(w, r, http.StatusOK, v)
}

// writeJSONStatus encodes v. Encoding errors are only logged since the
// header is already sent.
func writeJSONStatus(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode failed", "error", err)
	}
}
