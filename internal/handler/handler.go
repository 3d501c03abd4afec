// Package handler contains the HTTP handlers. Every handler follows the
// same shape: decode the JSON payload into a field map, run the compiled
// rule set, resolve the acting user where the route is protected, call
// into the repositories and answer with a {status, message, ...} body.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/muhozi/WeConnect-2/internal/validation"
)

// bindFields decodes the request body into a raw field map. Validation
// works on the map directly so that absent keys, null values and wrong
// types are all observable — binding to a typed struct would erase the
// difference between "missing" and "zero".
func bindFields(c echo.Context) (validation.Fields, error) {
	fields := validation.Fields{}
	if err := c.Bind(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// str reads a field through the same rendering the rules measured with.
// An accepted numeric value stores its digits, never a surprise "".
// Call only after validation has accepted the payload.
func str(fields validation.Fields, key string) string {
	return validation.Render(fields[key])
}

// invalidBody is the response for a body that is not valid JSON at all.
func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"status":  "error",
		"message": "Invalid request body",
	})
}

// validationFailed returns the aggregated per-field error map. All
// failing rules are reported at once.
func validationFailed(c echo.Context, message string, errs validation.Errors) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"status":  "error",
		"message": message,
		"errors":  errs,
	})
}

// serverError hides internals behind a generic 500 body.
func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"status":  "error",
		"message": "Something went wrong",
	})
}
