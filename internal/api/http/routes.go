package httpapi

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/invopop/jsonschema"

	"github.com/i474232898/weather-bot/internal/bot"
	"github.com/i474232898/weather-bot/internal/outbox"
)

var validate = validator.New()

// Handler processes chat updates.
type Handler interface {
	Handle(ctx context.Context, upd bot.Update) []bot.Reply
}

// Outbox hands out messages queued for a chat.
type Outbox interface {
	Drain(chatID int64) []outbox.Message
}

// UpdateRequest is an incoming chat event: typed text or a pressed button.
type UpdateRequest struct {
	ChatID       int64  `json:"chat_id" validate:"required" jsonschema:"title=Chat ID"`
	Text         string `json:"text,omitempty" validate:"required_without=CallbackData,excluded_with=CallbackData,max=4096" jsonschema:"title=Text"`
	CallbackData string `json:"callback_data,omitempty" validate:"required_without=Text,max=64" jsonschema:"title=Callback data"`
}

// UpdateResponse carries the replies for one update, in send order.
type UpdateResponse struct {
	Replies []bot.Reply `json:"replies"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. box may be nil
// when outbound messages are delivered elsewhere.
func RegisterRoutes(app *fiber.App, handler Handler, box Outbox) {
	v1 := app.Group("/api/v1")

	v1.Post("/updates", func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		replies := handler.Handle(c.UserContext(), bot.Update{
			ChatID:   req.ChatID,
			Text:     req.Text,
			Callback: req.CallbackData,
		})
		if replies == nil {
			replies = []bot.Reply{}
		}
		return c.JSON(UpdateResponse{Replies: replies})
	})

	v1.Get("/chats/:chatID/outbox", func(c *fiber.Ctx) error {
		if box == nil {
			return fiber.NewError(fiber.StatusNotFound, "outbox is not enabled")
		}
		chatID, err := strconv.ParseInt(c.Params("chatID"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid chat id")
		}

		messages := box.Drain(chatID)
		if messages == nil {
			messages = []outbox.Message{}
		}
		return c.JSON(fiber.Map{
			"chat_id":  chatID,
			"messages": messages,
		})
	})

	schemas := fiber.Map{
		"update":   jsonschema.Reflect(&UpdateRequest{}),
		"response": jsonschema.Reflect(&UpdateResponse{}),
	}
	v1.Get("/schema", func(c *fiber.Ctx) error {
		return c.JSON(schemas)
	})
}
