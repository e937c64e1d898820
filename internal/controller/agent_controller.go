package controller

import (
	"scad-studio-be/internal/dto"
	"scad-studio-be/internal/pkg/serverutils"
	"scad-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Evaluate(ctx *fiber.Ctx) error
	Apply(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
}

type agentController struct {
	service service.IAgentService
}

func NewAgentController(service service.IAgentService) IAgentController {
	return &agentController{service: service}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent")
	h.Post("/start", c.Start)
	h.Post("/evaluate", c.Evaluate)
	h.Post("/apply", c.Apply)
	h.Post("/stop", c.Stop)
}

func (c *agentController) Start(ctx *fiber.Ctx) error {
	var req dto.AgentStartRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session started", res))
}

func (c *agentController) Evaluate(ctx *fiber.Ctx) error {
	var req dto.AgentEvaluateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Evaluate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Evaluation complete", res))
}

func (c *agentController) Apply(ctx *fiber.Ctx) error {
	var req dto.AgentApplyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Apply(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Code applied", res))
}

func (c *agentController) Stop(ctx *fiber.Ctx) error {
	var req dto.AgentStopRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Stop(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session stopped", res))
}
