package handler

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/middleware"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"
	"storefront/pkg/response"
	"storefront/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// GetMyThread returns the caller's support thread, creating it on first
// access.
func (h *ChatHandler) GetMyThread(c echo.Context) error {
	actor := middleware.ActorFrom(c)

	thread, err := h.chatUseCase.GetOrCreateThread(c.Request().Context(), actor.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, thread)
}

type sendMessageRequest struct {
	Body        string              `json:"body"`
	ClientKey   string              `json:"client_key,omitempty"`
	Attachments []entity.Attachment `json:"attachments,omitempty"`
	// UserID targets another user's thread; only honored for admins.
	UserID string `json:"user_id,omitempty"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	actor := middleware.ActorFrom(c)
	thread, message, err := h.chatUseCase.SendMessage(c.Request().Context(), actor, req.UserID, usecase.SendMessageInput{
		Body:        req.Body,
		ClientKey:   req.ClientKey,
		Attachments: req.Attachments,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]interface{}{
		"thread_id": thread.ID,
		"message":   message,
	})
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	actor := middleware.ActorFrom(c)

	thread, err := h.chatUseCase.MarkRead(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, thread)
}

func (h *ChatHandler) GetThread(c echo.Context) error {
	actor := middleware.ActorFrom(c)

	thread, err := h.chatUseCase.GetThread(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, thread)
}

func (h *ChatHandler) ListThreads(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	result, err := h.chatUseCase.ListThreads(c.Request().Context(), c.QueryParam("status"), p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

type updateThreadRequest struct {
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=active pending closed"`
	AssignedAdmin string `json:"assigned_admin,omitempty"`
}

func (h *ChatHandler) UpdateThread(c echo.Context) error {
	var req updateThreadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	thread, err := h.chatUseCase.UpdateThread(c.Request().Context(), c.Param("id"), usecase.UpdateThreadInput{
		Status:        req.Status,
		AssignedAdmin: req.AssignedAdmin,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, thread)
}

func (h *ChatHandler) DeleteThread(c echo.Context) error {
	if err := h.chatUseCase.DeleteThread(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
