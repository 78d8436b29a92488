package handler

import (
	"encoding/json"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

var requestValidator = validator.New() //nolint:gochecknoglobals

// ParseBody decodes the JSON request body into out and validates its struct tags.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := DecodeJSON(c, out); err != nil {
		return err
	}

	if err := requestValidator.Struct(out); err != nil {
		return errors.Wrap(ErrInvalidBody, err.Error())
	}

	return nil
}

// DecodeJSON decodes the JSON request body into out without validation.
// Documents use it; their rules are enforced by the store.
func DecodeJSON(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(body) == 0 {
		return errors.Wrap(ErrInvalidBody, "empty body")
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(ErrInvalidBody, err.Error())
	}

	return nil
}

// ParamID reads a positive numeric path parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 0)
	if err != nil || id == 0 {
		return 0, errors.Wrapf(ErrInvalidParam, "%s must be a positive integer", name)
	}

	return uint(id), nil
}

// QueryID reads an optional positive numeric query parameter; absent gives nil.
func QueryID(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return nil, errors.Wrapf(ErrInvalidParam, "%s must be a positive integer", name)
	}

	out := uint(id)

	return &out, nil
}
