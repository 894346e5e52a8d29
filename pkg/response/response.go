// Package response holds the error payloads returned by the HTTP API.
package response

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const StatusError = "error"

var EmptyRequestBodyResponse = Response{
	Status:  StatusError,
	Message: "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:  StatusError,
	Message: "Request body is invalid. Please check its format.",
}

var InvalidURLResponse = Response{
	Status:  StatusError,
	Message: "Provide a valid http(s) URL in 'url'.",
}

var NotFoundResponse = Response{
	Status:  StatusError,
	Message: "Code not found.",
}

var ServerErrorResponse = Response{
	Status:  StatusError,
	Message: "An internal server error occurred. Please try again later.",
}

type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Details []validationError `json:"details,omitempty"`
}

type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

func issueForTag(tag string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "url", "http_url":
		return "Invalid url."
	default:
		return "Invalid value."
	}
}

func getValidationErrors(err error) []validationError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	details := make([]validationError, 0, len(errs))
	for _, e := range errs {
		details = append(details, validationError{
			Field: e.Field(),
			Value: e.Value(),
			Issue: issueForTag(e.Tag()),
		})
	}

	return details
}

// ValidationErrorResponse describes every failed field of a validator error.
func ValidationErrorResponse(err error) Response {
	return Response{
		Status:  StatusError,
		Message: InvalidURLResponse.Message,
		Details: getValidationErrors(err),
	}
}
