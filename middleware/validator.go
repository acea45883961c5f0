package middleware

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var Validate *validator.Validate

// InitValidator initializes validator and custom rules
func InitValidator() {
	Validate = validator.New()

	// Worker handles come from badge printers and HR exports; keep the
	// accepted alphabet narrow.
	Validate.RegisterValidation("workerid", func(fl validator.FieldLevel) bool {
		re := regexp.MustCompile(`^[A-Za-z0-9._@-]{1,64}$`)
		return re.MatchString(fl.Field().String())
	})

	Validate.RegisterValidation("station", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return len(name) >= 1 && len(name) <= 128
	})
}

func translateValidationErrors(err validator.ValidationErrors) map[string]string {
	errorsMap := make(map[string]string)
	for _, e := range err {
		field := e.Field()
		tag := e.Tag()
		switch tag {
		case "required":
			errorsMap[field] = field + " is required"
		case "workerid":
			errorsMap[field] = field + " must be 1-64 characters from A-Za-z0-9._@-"
		case "station":
			errorsMap[field] = field + " must be 1-128 characters"
		case "oneof":
			errorsMap[field] = field + " must be one of: " + e.Param()
		default:
			errorsMap[field] = field + " is invalid"
		}
	}
	return errorsMap
}

// ValidateBody is Fiber middleware that validates request body
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body T

		// Parse JSON into struct
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		// Validate struct
		if err := Validate.Struct(&body); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"errors": translateValidationErrors(errs),
				})
			}
			// fallback for unexpected errors
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		// Store validated body in context for controller
		c.Locals("body", &body)
		return c.Next()
	}
}
