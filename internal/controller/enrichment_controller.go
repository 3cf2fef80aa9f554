package controller

import (
	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/serverutils"
	"ai-trendboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEnrichmentController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
	Progress(ctx *fiber.Ctx) error
}

type enrichmentController struct {
	service service.IEnrichmentService
}

func NewEnrichmentController(service service.IEnrichmentService) IEnrichmentController {
	return &enrichmentController{service: service}
}

func (c *enrichmentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/enrichment/v1")
	h.Use(serverutils.SessionMiddleware)
	h.Post("/run", c.Run)
	h.Get("/progress", c.Progress)
}

// Run blocks until the whole batch joined; live progress goes out via
// the websocket hub and the progress endpoint.
func (c *enrichmentController) Run(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	var req dto.RunEnrichmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Run(ctx.Context(), sessionID, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run enrichment", res))
}

func (c *enrichmentController) Progress(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	res, err := c.service.Progress(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get progress", res))
}
