package controller

import (
	"scad-studio-be/internal/pkg/serverutils"
	"scad-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	ListFiles(ctx *fiber.Ctx) error
	FilesStatus(ctx *fiber.Ctx) error
}

type fileController struct {
	service service.IFileService
}

func NewFileController(service service.IFileService) IFileController {
	return &fileController{service: service}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/files", c.ListFiles)
	r.Get("/files/status", c.FilesStatus)
}

func (c *fileController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

func (c *fileController) ListFiles(ctx *fiber.Ctx) error {
	res, err := c.service.ListFiles()
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get files", res))
}

func (c *fileController) FilesStatus(ctx *fiber.Ctx) error {
	res, err := c.service.FilesStatus()
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get files status", res))
}
