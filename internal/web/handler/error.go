package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/db/controller"
)

var (
	// ErrNilDependency is returned by Init when the router, config or db is nil.
	ErrNilDependency = errors.New(ErrNilACDFatalLogMsg)

	// ErrInvalidBody is returned when a request body cannot be decoded or fails validation.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrInvalidParam is returned when a path or query parameter is malformed.
	ErrInvalidParam = errors.New("invalid parameter")
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var (
		fiberErr      *fiber.Error
		validationErr validator.ValidationErrors
	)

	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, controller.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, controller.ErrDuplicateName),
		errors.Is(err, controller.ErrRoleInUse),
		errors.Is(err, controller.ErrPermissionInUse),
		errors.Is(err, controller.ErrSystemRole),
		errors.Is(err, auth.ErrUserNameOrEmailExists):
		return fiber.StatusConflict
	case errors.Is(err, controller.ErrInvalidDocument),
		errors.Is(err, controller.ErrUnknownPermission),
		errors.Is(err, controller.ErrInvalidReassign),
		errors.Is(err, controller.ErrNameEmpty):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidParam),
		errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidPassword),
		errors.Is(err, auth.ErrUserAccountDisabled):
		return fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrUnauthorized):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the fiber error handler of the API. Client errors carry their
// message; server errors are logged and answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := Status(err)
	msg := err.Error()

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Request failed")

		msg = InternalErrorMessage
	}

	return c.Status(code).JSON(ErrorResponse{Code: code, Error: msg})
}
