package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/validation"
)

// bindJSON decodes the request body into out with the app's JSON decoder.
// Fields of the wrong JSON type are reported as a *validation.Error naming
// them; anything else that fails to parse is returned as is.
func bindJSON(c fiber.Ctx, out any) error {
	err := c.App().Config().JSONDecoder(c.Body(), out)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "non_field_errors"
		}
		return validation.New(field, fmt.Sprintf("Expected %s but got %s.", describeType(typeErr.Type), typeErr.Value))
	}
	return err
}

func describeType(t reflect.Type) string {
	if t == nil {
		return "a value"
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "a list of items"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Struct, reflect.Map:
		return "an object"
	}
	return t.String()
}

// bindError writes the response for a failed bindJSON.
func bindError(c fiber.Ctx, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return writeError(c, "invalid request body", err)
	}
	return badRequest(c, "invalid request body")
}
