package serverutils

import (
	"errors"

	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/pkg/spreadsheet"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response is the JSON envelope every endpoint answers with.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) Response[any] {
	return Response[any]{
		Success: false,
		Message: message,
	}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into
// a 400 fiber error.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware maps typed errors from the service layer onto
// HTTP statuses. Upload/format errors are terminal for their action and
// surfaced immediately; per-unit batch errors never reach this path.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		var formatErr *spreadsheet.FormatError
		var uploadErr *dto.UploadError

		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
		case errors.Is(err, spreadsheet.ErrNotImplemented):
			status = fiber.StatusNotImplemented
		case errors.As(err, &formatErr), errors.As(err, &uploadErr),
			errors.Is(err, dto.ErrRowOutOfRange):
			status = fiber.StatusBadRequest
		case errors.Is(err, dto.ErrInvalidPassword),
			errors.Is(err, dto.ErrSessionNotFound):
			status = fiber.StatusUnauthorized
		case errors.Is(err, dto.ErrInvalidAPIKey):
			status = fiber.StatusUnprocessableEntity
		case errors.Is(err, dto.ErrNoTable),
			errors.Is(err, dto.ErrNoAPIKey),
			errors.Is(err, dto.ErrNoTrends):
			status = fiber.StatusConflict
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
