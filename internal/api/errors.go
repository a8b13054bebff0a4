package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
)

// CodeInternal is reported for failures outside the account taxonomy.
const CodeInternal = "internal"

// RetryAfterSeconds is advertised on 503 responses.
const RetryAfterSeconds = "1"

// MapErrorToStatusCode maps an error to its HTTP status by failure code.
func MapErrorToStatusCode(err error) int {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}

	switch domain.CodeOf(err) {
	case domain.CodeDuplicateEmail:
		return http.StatusConflict
	case domain.CodeUserNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidCredentials, domain.CodeTokenInvalid, domain.CodeTokenExpired:
		return http.StatusUnauthorized
	case domain.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case domain.CodeValidation:
		return http.StatusBadRequest
	default:
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a message that may be shown to clients.
// Account errors carry their own client-facing message; anything else is
// replaced by a generic one.
func GetSafeErrorMessage(err error) string {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return SanitizeValidationError(verr)
	}

	var dErr *domain.Error
	if errors.As(err, &dErr) {
		switch dErr.Code {
		case domain.CodeStoreUnavailable:
			return "Service temporarily unavailable"
		case domain.CodeHashFailed:
			return "An unexpected error occurred"
		case domain.CodeTokenExpired:
			return "Token expired"
		case domain.CodeTokenInvalid:
			return "Invalid token"
		}
		return dErr.Message
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return fmt.Sprintf("Invalid %s: %s", vErr.Field, vErr.Message)
	}
	return "An unexpected error occurred"
}

// SanitizeValidationError renders the first failing field of a validator
// error without exposing struct names.
func SanitizeValidationError(verr validator.ValidationErrors) string {
	if len(verr) == 0 {
		return "Validation error"
	}
	fe := verr[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}

func errorCode(err error) string {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return string(domain.CodeValidation)
	}
	if code := domain.CodeOf(err); code != "" {
		return string(code)
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return string(domain.CodeValidation)
	}
	return CodeInternal
}

// HandleAPIError writes the error response for err. Store unavailability
// adds a Retry-After header.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", RetryAfterSeconds)
	}
	shared.RespondWithErrorAndLog(w, r, status, errorCode(err), GetSafeErrorMessage(err), err)
}
