package controller

import (
	"errors"
	"strings"

	"carechat-be/internal/dto"
	"carechat-be/internal/pkg/serverutils"
	"carechat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	GetIntent(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.SendChat)
	h.Get(":id/history", c.GetHistory)
	h.Get(":id/intent", c.GetIntent)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message must not be empty")
	}

	res, err := c.service.SendChat(ctx.Context(), &req)
	if err != nil {
		// The client gets a stable error shape with the conversation id it
		// sent, so it can retry on the same conversation.
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ChatErrorResponse{
			Message: "An error occurred: " + err.Error(),
			ChatId:  req.ChatId,
		})
	}

	return ctx.JSON(res)
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	chatId := ctx.Params("id")

	res, err := c.service.GetHistory(ctx.Context(), chatId)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "conversation not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) GetIntent(ctx *fiber.Ctx) error {
	chatId := ctx.Params("id")

	res, err := c.service.GetIntent(ctx.Context(), chatId)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "conversation not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get last intent", res))
}
