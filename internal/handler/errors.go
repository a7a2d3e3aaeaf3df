package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"arbor/internal/domain"
	"arbor/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Anything that is
// not a domain error is logged and reported as a bare 500.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	switch {
	case errors.As(err, &httpErr):
		httputil.RespondRequestError(w, r, httpErr.StatusCode(), httpErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondRequestError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondRequestError(w, r, http.StatusNotFound, err.Error())
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r.Context()),
			"error", err,
		)
		httputil.RespondRequestError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// handleBodyError reports a request body that could not be decoded
func handleBodyError(w http.ResponseWriter, r *http.Request, err error) {
	if httputil.IsBodyTooLarge(err) {
		httputil.RespondRequestError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	httputil.RespondRequestError(w, r, http.StatusBadRequest, err.Error())
}

// pathID parses the {id} path value, writing a 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request, what string) (int64, bool) {
	id, err := httputil.ParseID(r.PathValue("id"))
	if err != nil {
		httputil.RespondRequestError(w, r, http.StatusBadRequest, what+" ID must be a positive integer")
		return 0, false
	}
	return id, true
}
