package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/moritahrk/tabememo/internal/dto"
	"github.com/moritahrk/tabememo/internal/services"
	"github.com/moritahrk/tabememo/internal/validation"
)

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

// domainError maps the shared service error vocabulary to HTTP statuses.
// Field-scoped validation failures answer 422 with the per-field messages so
// a form client can re-render them in place; fallback covers everything a
// handler does not branch on itself.
func domainError(c *fiber.Ctx, err error, fallback string) error {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: "validation failed", Fields: fe,
		})
	}
	switch {
	case errors.Is(err, services.ErrRestaurantNotFound),
		errors.Is(err, services.ErrVisitNotFound),
		errors.Is(err, services.ErrImageNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}
