package controller

import (
	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/serverutils"
	"ai-trendboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITrendController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type trendController struct {
	service service.ITrendService
}

func NewTrendController(service service.ITrendService) ITrendController {
	return &trendController{service: service}
}

func (c *trendController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/trend/v1")
	h.Use(serverutils.SessionMiddleware)
	h.Get("", c.Get)
	h.Post("/run", c.Run)
	h.Get("/export", c.Export)
}

func (c *trendController) Run(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	var req dto.RunTrendRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success run trend analysis", res))
}

func (c *trendController) Get(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	res, err := c.service.Get(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get trend summaries", res))
}

func (c *trendController) Export(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	data, err := c.service.ExportCSV(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="trends.csv"`)
	return ctx.Send(data)
}
