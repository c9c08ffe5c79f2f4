package useradmin

import (
	stderrors "errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field to message map suitable for a JSON response body.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if stderrors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return stderrors.New("values must match")
		}
		return nil
	}
}

// NewHTTPErrorHandler builds the JSON error handler shared by every route.
// Payload validation failures render 422 with a per-field map; rich errors
// carry their own status code; anything else is a 500 with a generic body.
func NewHTTPErrorHandler(logger Logger) router.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c router.Context, err error) error {
		status, body := errorResponse(err, logger)
		return c.JSON(status, body)
	}
}

func errorResponse(err error, logger Logger) (int, map[string]any) {
	var verrs validation.Errors
	if stderrors.As(err, &verrs) {
		return http.StatusUnprocessableEntity, map[string]any{
			"errors": FormatValidationErrorToMap(verrs),
		}
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	// rich validation errors that name an offending field render like
	// payload validation failures, a 422 with a per-field map
	if richErr.Category == errors.CategoryValidation {
		if field, ok := richErr.Metadata["field"].(string); ok && field != "" {
			return http.StatusUnprocessableEntity, map[string]any{
				"errors": map[string]string{field: richErr.Message},
			}
		}
	}

	logger.Info(
		"request error category=%s text_code=%s details=%s",
		richErr.Category,
		richErr.TextCode,
		print.MaybePrettyJSON(richErr.Metadata),
	)

	status := richErr.Code
	if status == 0 {
		status = statusFromCategory(richErr.Category)
	}

	body := map[string]any{
		"error":     richErr.Message,
		"text_code": richErr.TextCode,
	}
	if len(richErr.Metadata) > 0 {
		body["metadata"] = richErr.Metadata
	}

	return status, body
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
