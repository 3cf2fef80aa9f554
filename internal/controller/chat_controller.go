package controller

import (
	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/serverutils"
	"ai-trendboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	GetHistory(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	GenerateImage(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.SessionMiddleware)
	h.Get("/history", c.GetHistory)
	h.Post("", c.Send)
	h.Post("/image", c.GenerateImage)
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	res, err := c.service.GetHistory(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Send(ctx.Context(), sessionID, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) GenerateImage(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	var req dto.GenerateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GenerateImage(ctx.Context(), sessionID, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate image", res))
}
