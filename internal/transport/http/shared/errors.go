package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"hrhub/internal/apiclient"
	"hrhub/internal/domain/account"
	"hrhub/internal/domain/nominations"
	"hrhub/internal/domain/reviews"
	"hrhub/internal/domain/summaries"
	"hrhub/internal/forms"
	"hrhub/internal/requestctx"
	"hrhub/internal/session"
	"hrhub/internal/transport/http/api"
)

// RedirectHome ends the browser's session: auth cookies are cleared and the client is sent
// to the sign-in page.
func RedirectHome(w http.ResponseWriter, r *http.Request) {
	ClearAuth(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// WriteError maps service errors to responses. Unexpected backend failures are also queued
// as an error toast on the caller's session.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())

	var formErr *forms.Errors
	var apiErr *apiclient.APIError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &formErr):
		api.FailFields(w, http.StatusUnprocessableEntity, formErr.Message, formErr.Fields, requestID)
	case errors.Is(err, apiclient.ErrUnauthorized):
		RedirectHome(w, r)
	case errors.As(err, &tooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
	case errors.Is(err, ErrInvalidPayload),
		errors.Is(err, nominations.ErrUnknownAction),
		errors.Is(err, nominations.ErrUnknownStatus),
		errors.Is(err, reviews.ErrUnknownListKind):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), requestID)
	case errors.Is(err, account.ErrWrongKind):
		api.Fail(w, http.StatusForbidden, "wrong_portal", err.Error(), requestID)
	case errors.Is(err, nominations.ErrInvalidTransition),
		errors.Is(err, reviews.ErrNoReviewInProgress),
		errors.Is(err, summaries.ErrAlreadyAcknowledged):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, apiclient.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden:
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
	case errors.As(err, &apiErr), errors.Is(err, nominations.ErrUnexpectedStatus), errors.Is(err, apiclient.ErrEmptyResponse):
		slog.Warn("backend request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		toast(r, "The HR service could not complete the request.")
		api.Fail(w, http.StatusBadGateway, "backend_error", "the HR service could not complete the request", requestID)
	default:
		slog.Warn("request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		toast(r, "Something went wrong. Please try again.")
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}

func toast(r *http.Request, message string) {
	if sess, ok := session.FromContext(r.Context()); ok {
		sess.PushToast(session.ToastError, "Request failed", message)
	}
}
