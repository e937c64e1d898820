package controller

import (
	"fmt"

	"scad-studio-be/internal/dto"
	"scad-studio-be/internal/pkg/serverutils"
	"scad-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRenderController interface {
	RegisterRoutes(r fiber.Router)
	Validate(ctx *fiber.Ctx) error
	RenderPNG(ctx *fiber.Ctx) error
	RenderSTL(ctx *fiber.Ctx) error
	RenderViews(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type renderController struct {
	service service.IRenderService
}

func NewRenderController(service service.IRenderService) IRenderController {
	return &renderController{service: service}
}

func (c *renderController) RegisterRoutes(r fiber.Router) {
	r.Post("/validate", c.Validate)
	r.Post("/render/png", c.RenderPNG)
	r.Post("/render/stl", c.RenderSTL)
	r.Post("/render/views", c.RenderViews)
	r.Post("/export", c.Export)
	r.Get("/openscad", c.Status)
}

func (c *renderController) Validate(ctx *fiber.Ctx) error {
	var req dto.ValidateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Validate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Validation complete", res))
}

func (c *renderController) RenderPNG(ctx *fiber.Ctx) error {
	var req dto.RenderPngRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	png, err := c.service.RenderPNG(ctx.Context(), &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "image/png")
	return ctx.Send(png)
}

func (c *renderController) RenderSTL(ctx *fiber.Ctx) error {
	var req dto.RenderStlRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	data, filename, err := c.service.RenderSTL(ctx.Context(), &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "model/stl")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Send(data)
}

func (c *renderController) RenderViews(ctx *fiber.Ctx) error {
	var req dto.RenderViewsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RenderViews(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Views rendered", res))
}

func (c *renderController) Export(ctx *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Export(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Export complete", res))
}

func (c *renderController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OpenSCAD status", c.service.Status(ctx.Context())))
}
