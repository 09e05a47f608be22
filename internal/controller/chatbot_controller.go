package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"log"

	"leadq-chatbot-be/internal/dto"
	"leadq-chatbot-be/internal/pkg/serverutils"
	"leadq-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	StreamChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type chatbotController struct {
	service service.IChatbotService
}

func NewChatbotController(service service.IChatbotService) IChatbotController {
	return &chatbotController{service: service}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.OptionalJwtMiddleware) // anonymous allowed
	h.Post("/stream", c.StreamChat)
	h.Get("/history/:sessionId", c.GetHistory)
}

// StreamChat answers one message as newline-delimited JSON chunks. The
// response is always 200; resolution failures arrive in-band as content.
func (c *chatbotController) StreamChat(ctx *fiber.Ctx) error {
	var req dto.ChatStreamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Authenticated callers get their transcript attributed even when the
	// client omits userId.
	if req.UserId == "" {
		if userId, ok := ctx.Locals("user_id").(string); ok {
			req.UserId = userId
		}
	}

	ctx.Set(fiber.HeaderContentType, "application/x-ndjson")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	svc := c.service
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		encoder := json.NewEncoder(w)
		emit := func(chunk dto.StreamChunk) error {
			if err := encoder.Encode(chunk); err != nil {
				return err
			}
			// Flush per chunk so tokens reach the client as they arrive
			return w.Flush()
		}

		if err := svc.StreamChat(context.Background(), &req, emit); err != nil {
			// The caller is gone; nothing left to write
			log.Printf("[WARN] Chat stream ended early: %v", err)
		}
	}))

	return nil
}

func (c *chatbotController) GetHistory(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.service.GetChatHistory(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}
