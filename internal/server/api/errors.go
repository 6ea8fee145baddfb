package api

import (
	"context"
	"errors"

	"github.com/Alia5/micropad/apitypes"
	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/keymap"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/selection"
)

// Factory helpers returning *apitypes.ApiError (single canonical error type).
func ErrBadRequest(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: detail}
}
func ErrNotFound(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 404, Title: "Not Found", Detail: detail}
}
func ErrConflict(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 409, Title: "Conflict", Detail: detail}
}
func ErrInternal(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 500, Title: "Internal Server Error", Detail: detail}
}
func ErrBadGateway(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 502, Title: "Bad Gateway", Detail: detail}
}
func ErrUnavailable(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 503, Title: "Service Unavailable", Detail: detail}
}
func ErrTimeout(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 504, Title: "Gateway Timeout", Detail: detail}
}

// WrapError normalizes any error into *apitypes.ApiError. Domain errors keep
// their message and get the matching status.
func WrapError(err error) *apitypes.ApiError {
	if err == nil {
		return nil
	}
	var ae *apitypes.ApiError
	if errors.As(err, &ae) {
		return ae
	}
	msg := err.Error()
	switch {
	case errors.Is(err, combo.ErrInvalidCombo),
		errors.Is(err, keymap.ErrOutOfRange),
		errors.Is(err, selection.ErrNothingToAssign):
		return ErrBadRequest(msg)
	case errors.Is(err, keymap.ErrUnknownPreset):
		return ErrNotFound(msg)
	case errors.Is(err, selection.ErrNoSelection):
		return ErrConflict(msg)
	case errors.Is(err, link.ErrNotConnected):
		return ErrUnavailable(msg)
	case errors.Is(err, link.ErrTransportFailure):
		return ErrBadGateway(msg)
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout(msg)
	}
	return ErrInternal(msg)
}
