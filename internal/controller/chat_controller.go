package controller

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/agent"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ListDocuments(ctx *fiber.Ctx) error
}

type chatController struct {
	service  service.IChatService
	validate *validator.Validate
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/", c.Chat)
	h.Get("/history", c.GetHistory)
	h.Get("/documents", c.ListDocuments)
}

// Chat accepts a multipart turn: query, user, session, stream flag and
// an optional file (already-extracted UTF-8 text). Streaming responses
// go out as SSE data events terminated by [DONE].
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	request := &dto.ChatRequest{
		Query:   ctx.FormValue("query"),
		User:    ctx.FormValue("user"),
		Session: ctx.FormValue("session"),
		Stream:  ctx.FormValue("stream") == "true",
	}

	if err := c.validate.Struct(request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if fileHeader, err := ctx.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "unable to open uploaded file"))
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "unable to read uploaded file"))
		}
		request.FileName = fileHeader.Filename
		request.FileData = data
	}

	result, err := c.service.Chat(ctx.Context(), request)
	if err != nil {
		var missing *agent.MissingDocumentError
		if errors.As(err, &missing) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, missing.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	if result.Stream != nil {
		return c.streamSSE(ctx, result.Stream)
	}

	return ctx.JSON(serverutils.SuccessResponse(&dto.ChatResponse{
		Task:     result.Task,
		Answer:   result.Answer,
		IsPrompt: result.IsPrompt,
	}))
}

func (c *chatController) streamSSE(ctx *fiber.Ctx, stream <-chan string) error {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for piece := range stream {
			payload, err := json.Marshal(dto.StreamEvent{Content: piece})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				// Client went away; drain so the producer can finish.
				for range stream {
				}
				return
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		w.Flush()
	}))

	return nil
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	userID := ctx.Query("user", "default_user")
	sessionID := ctx.Query("session", "default")

	res, err := c.service.GetHistory(ctx.Context(), userID, sessionID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}

func (c *chatController) ListDocuments(ctx *fiber.Ctx) error {
	userID := ctx.Query("user", "default_user")
	sessionID := ctx.Query("session", "default")

	res, err := c.service.ListDocuments(ctx.Context(), userID, sessionID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}
