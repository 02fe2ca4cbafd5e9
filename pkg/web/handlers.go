// Package web exposes the cog over HTTP.
package web

import (
	"github.com/dukex/iterable-cog/pkg/cog"
	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	cog       *cog.Cog
	validator *validator.Validate
}

func NewAPIHandlers(c *cog.Cog, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		cog:       c,
		validator: validator,
	}
}

func (h *APIHandlers) GetManifest(c fiber.Ctx) error {
	return c.JSON(h.cog.GetManifest())
}

// RunStep runs one step. Step outcomes, including errors, are returned with a
// 200; only malformed requests are rejected.
func (h *APIHandlers) RunStep(c fiber.Ctx) error {
	var req RunStepRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	// A missing key is left for the upstream to reject.
	auth := models.AuthMetadata{models.AuthFieldAPIKey: c.Get(APIKeyHeader)}

	return c.JSON(h.cog.RunStep(c.Context(), req.toModel(), auth))
}
