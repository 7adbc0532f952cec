package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessages(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		if fieldErr.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s is %s=%s", fieldErr.Field(), fieldErr.Tag(), fieldErr.Param()))
		} else {
			messages = append(messages, fmt.Sprintf("%s is %s", fieldErr.Field(), fieldErr.Tag()))
		}
	}
	return messages
}

// parseBody decodes and validates a JSON body. It writes the 400 response
// itself and reports false when the request must stop.
func parseBody(ctx *fiber.Ctx, out any) (bool, error) {
	if err := ctx.BodyParser(out); err != nil {
		return false, ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgInvalidRequest))
	}
	if err := validate.Struct(out); err != nil {
		resp := NewErrorResponse(MsgValidationFailed)
		resp.Errors = validationMessages(err)
		return false, ctx.Status(fiber.StatusBadRequest).JSON(resp)
	}
	return true, nil
}
