package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel"

	"github.com/sanLimbu/taskplanner-api/internal"
)

const otelName = "github.com/sanLimbu/taskplanner-api/internal/rest"

// ErrorResponse represents a response containing an error message, plus
// field-level messages when the failure came from input validation.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func renderErrorResponse(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	status := http.StatusInternalServerError

	var ierr *internal.Error
	if !errors.As(err, &ierr) {
		resp.Error = "internal error"
	} else {
		switch ierr.Code() {
		case internal.ErrorCodeNotFound:
			status = http.StatusNotFound
		case internal.ErrorCodeInvalidArgument:
			status = http.StatusBadRequest
			resp.Fields = fieldErrors(err)
		case internal.ErrorCodeUnauthorized:
			status = http.StatusUnauthorized
		}
	}

	if err != nil {
		_, span := otel.Tracer(otelName).Start(ctx, "rest.renderErrorResponse")
		defer span.End()

		span.RecordError(err)
	}

	renderResponse(w, resp, status)
}

// fieldErrors flattens an ozzo validation error into field -> message pairs,
// nested struct fields keep only their leaf name.
func fieldErrors(err error) map[string]string {
	var verr validation.Errors
	if !errors.As(err, &verr) {
		return nil
	}

	res := make(map[string]string, len(verr))

	for field, ferr := range verr {
		var nested validation.Errors
		if errors.As(ferr, &nested) {
			for sub, serr := range nested {
				res[sub] = serr.Error()
			}

			continue
		}

		res[field] = ferr.Error()
	}

	return res
}

func renderResponse(w http.ResponseWriter, res interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)

	if _, err = w.Write(content); err != nil {
		// Already committed, nothing sensible left to do.
		_ = err
	}
}
