package controller

import (
	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/serverutils"
	"ai-trendboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	UploadLegacy(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.ICatalogService
}

func NewCatalogController(service service.ICatalogService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog/v1")
	h.Use(serverutils.SessionMiddleware)
	h.Get("", c.Get)
	h.Delete("", c.Reset)
	h.Post("/upload", c.Upload)
	h.Post("/upload/legacy", c.UploadLegacy)
	h.Get("/export", c.Export)
}

func (c *catalogController) Upload(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return &dto.UploadError{Reason: "missing file field", Err: err}
	}
	file, err := fileHeader.Open()
	if err != nil {
		return &dto.UploadError{Reason: "unreadable file", Err: err}
	}
	defer file.Close()

	res, err := c.service.UploadTabular(ctx.Context(), sessionID, fileHeader.Filename, file)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload catalog", res))
}

func (c *catalogController) UploadLegacy(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)
	layout := ctx.FormValue("layout")

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return &dto.UploadError{Reason: "missing file field", Err: err}
	}
	file, err := fileHeader.Open()
	if err != nil {
		return &dto.UploadError{Reason: "unreadable file", Err: err}
	}
	defer file.Close()

	res, err := c.service.UploadLegacy(ctx.Context(), sessionID, fileHeader.Filename, layout, file)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload legacy spreadsheet", res))
}

func (c *catalogController) Get(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	res, err := c.service.Get(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get catalog", res))
}

func (c *catalogController) Reset(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	if err := c.service.Reset(ctx.Context(), sessionID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset catalog", nil))
}

func (c *catalogController) Export(ctx *fiber.Ctx) error {
	sessionID := ctx.Locals("session_id").(string)

	data, err := c.service.ExportCSV(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="catalog.csv"`)
	return ctx.Send(data)
}
