package httpx

import (
	"errors"
	"net/http"

	"github.com/interview-ai/datasheet-ui/internal/apiclient"
	apperrors "github.com/interview-ai/datasheet-ui/internal/errors"
)

// DetermineErrorStatus maps an API call failure to the status the page is
// rendered with.
func DetermineErrorStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.GetCode(err) == apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apiclient.IsTransport(err):
		return http.StatusBadGateway
	}
	if status := apiclient.StatusCode(err); status != 0 {
		if status >= 400 && status < 500 {
			return status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// ErrorMessage returns the user-facing text for err.
func ErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != apperrors.ErrCodeInternal {
		return appErr.Message
	}
	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		if detail := httpErr.Detail(); detail != "" {
			return detail
		}
		return http.StatusText(httpErr.StatusCode)
	}
	if apiclient.IsTransport(err) {
		return "Não foi possível contatar o servidor."
	}
	return "Erro inesperado."
}
