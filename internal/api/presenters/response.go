package presenters

import (
	"errors"

	"foodgram/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	Response struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
	}

	ErrorBody struct {
		Status  bool              `json:"status"`
		Message string            `json:"message"`
		Error   string            `json:"error"`
		Fields  map[string]string `json:"fields,omitempty"`
	}
)

var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:    fiber.StatusBadRequest,
	domain.KindPrecondition:  fiber.StatusBadRequest,
	domain.KindConflict:      fiber.StatusConflict,
	domain.KindNotFound:      fiber.StatusNotFound,
	domain.KindForbidden:     fiber.StatusForbidden,
	domain.KindUnauthorized:  fiber.StatusUnauthorized,
	domain.KindConfiguration: fiber.StatusInternalServerError,
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes err as JSON. Domain errors and validator failures
// override statusCode with the status their kind maps to.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	body := ErrorBody{Message: message}
	if err != nil {
		body.Error = err.Error()
	}

	if status, ok := kindStatus[domain.KindOf(err)]; ok {
		statusCode = status
	}

	var verrs validator.ValidationErrors
	var ferr *domain.FieldError
	switch {
	case errors.As(err, &verrs):
		statusCode = fiber.StatusBadRequest
		body.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			body.Fields[fe.Field()] = describe(fe)
		}
	case errors.As(err, &ferr):
		body.Fields = map[string]string{ferr.Field: ferr.Err.Error()}
	}

	return c.Status(statusCode).JSON(body)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	case "username":
		return "may contain only letters, digits and @/./+/-/_ and must not be \"me\""
	case "tagcolor":
		return "must be a HEX color like #RGB or #RRGGBB"
	case "slug":
		return "may contain only letters, digits, hyphens and underscores"
	case "base64image":
		return "must be a base64 encoded image"
	default:
		return "failed on " + fe.Tag()
	}
}
