package handler

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/middleware"
	"storefront/internal/usecase"
	"storefront/pkg/response"
	"storefront/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	actor := middleware.ActorFrom(c)

	order, err := h.orderUseCase.GetByID(c.Request().Context(), actor.UserID, actor.Admin, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	p := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.ListByUser(c.Request().Context(), actor.UserID, p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, p.Page, p.PageSize)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.List(c.Request().Context(), c.QueryParam("status"), p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, p.Page, p.PageSize)
}

type updateOrderStatusRequest struct {
	Status       string `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
	CancelReason string `json:"cancel_reason,omitempty"`
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, message, err := h.orderUseCase.UpdateStatus(c.Request().Context(), c.Param("id"), usecase.UpdateOrderStatusInput{
		Status:       req.Status,
		CancelReason: req.CancelReason,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"order":   order,
		"message": message,
	})
}
