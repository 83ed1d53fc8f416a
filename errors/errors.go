package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrMissingParameter  = stderrors.New("missing parameter")
	ErrInvalidIdentifier = stderrors.New("invalid identifier")
	ErrInvalidPayload    = stderrors.New("invalid payload")
	ErrUnauthorized      = stderrors.New("unauthorized")
	ErrForbidden         = stderrors.New("forbidden")
	ErrStorage           = stderrors.New("storage failure")
	ErrExternalProvider  = stderrors.New("external provider failure")
	ErrDuplicateRecord   = stderrors.New("duplicate record")
)

// ProviderError wraps a failed call to the payment or identity provider.
type ProviderError struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed with status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrExternalProvider
}

func NewProviderError(provider, op string, statusCode int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, StatusCode: statusCode, Err: err}
}

// Storage tags a database error with the operation that produced it.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

func MissingParameter(name string) error {
	return fmt.Errorf("%w: %s is required", ErrMissingParameter, name)
}

func InvalidIdentifier(id string) error {
	return fmt.Errorf("%w: %q is not a valid id", ErrInvalidIdentifier, id)
}

func InvalidPayload(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
}

func RaiseError(context *fiber.Ctx, status int, message string, data string) error {
	return context.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    data})
}

func RaisePermissionsError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusUnauthorized, "lack of permissions", data)
}

func RaiseForbiddenError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusForbidden, "forbidden access", data)
}

func RaiseInternalServerError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusInternalServerError, "internal error", data)
}

func RaiseBadRequestError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusBadRequest, "bad request", data)
}

func RaiseNotFoundError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusNotFound, "resource not found", data)
}

func RaiseBadGatewayError(context *fiber.Ctx, data string) error {
	return RaiseError(context, fiber.StatusBadGateway, "payment provider unavailable", data)
}

// Raise writes the envelope matching err's kind. Storage failures and unknown
// errors never leak their detail to the caller.
func Raise(context *fiber.Ctx, err error) error {
	switch Status(err) {
	case fiber.StatusBadRequest:
		return RaiseBadRequestError(context, err.Error())
	case fiber.StatusUnauthorized:
		return RaisePermissionsError(context, err.Error())
	case fiber.StatusForbidden:
		return RaiseForbiddenError(context, err.Error())
	case fiber.StatusBadGateway:
		return RaiseBadGatewayError(context, "the payment provider could not complete the request")
	default:
		return RaiseInternalServerError(context, "the request could not be completed")
	}
}

// Status reports the HTTP status Raise would use for err.
func Status(err error) int {
	switch {
	case stderrors.Is(err, ErrMissingParameter),
		stderrors.Is(err, ErrInvalidIdentifier),
		stderrors.Is(err, ErrInvalidPayload):
		return fiber.StatusBadRequest
	case stderrors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case stderrors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case stderrors.Is(err, ErrExternalProvider):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// FiberErrorHandler renders routing errors (unknown path, wrong method) and
// anything a handler returned unhandled in the same envelope.
func FiberErrorHandler(context *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return RaiseNotFoundError(context, fiberErr.Message)
		case fiber.StatusInternalServerError:
			return RaiseInternalServerError(context, "the request could not be completed")
		default:
			return RaiseError(context, fiberErr.Code, "request rejected", fiberErr.Message)
		}
	}
	return Raise(context, err)
}
