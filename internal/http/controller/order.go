package controller

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"yandex-team.ru/candytask/internal/usecase/order"
)

type OrderController struct {
	uc *order.OrderUseCase
}

type OrderDto struct {
	ID            uint64   `json:"order_id"`
	CourierID     *uint64  `json:"courier_id,omitempty"`
	Weight        float64  `json:"weight"`
	Region        int32    `json:"region"`
	DeliveryHours []string `json:"delivery_hours"`
}

func NewOrderController(uc *order.OrderUseCase) OrderController {
	return OrderController{
		uc: uc,
	}
}

// ===================================
// ========== GET /orders ============
// ===================================

func (c *OrderController) GetAll(ctx echo.Context) error {

	var limit int = 1
	var offset int = 0
	var err error

	limitParam := ctx.QueryParam("limit")
	if limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil || limit < 0 || limit > math.MaxInt32 {
			return echo.NewHTTPError(400, "Invalid 'limit' param")
		}
	}

	offsetParam := ctx.QueryParam("offset")
	if offsetParam != "" {
		offset, err = strconv.Atoi(offsetParam)
		if err != nil || offset < 0 || offset > math.MaxInt32 {
			return echo.NewHTTPError(400, "Invalid 'offset' param")
		}
	}

	orders, err := c.uc.PaginatedGetAll(ctx.Request().Context(), int32(offset), int32(limit))
	if err != nil {
		return err
	}

	res := []OrderDto{}

	for _, order := range *orders {
		res = append(res, OrderDto{
			ID:            order.ID,
			CourierID:     order.CourierID,
			Weight:        order.Weight,
			Region:        order.Region,
			DeliveryHours: order.DeliveryHours,
		})
	}

	return ctx.JSON(200, res)
}

// ====================================
// ========== POST /orders ============
// ====================================

type OrderCreateResponse struct {
	Orders []OrderDto `json:"orders"`
}

// Create accepts a `{"data": [...]}` batch, validated as a whole by the
// payload validator; see CourierController.Create for why the body stays raw.
func (c *OrderController) Create(ctx echo.Context) error {

	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	savedOrders, err := c.uc.CreateOrders(ctx.Request().Context(), payload)
	if err != nil {
		return err
	}

	res := OrderCreateResponse{
		Orders: []OrderDto{},
	}

	for _, newOrder := range *savedOrders {
		res.Orders = append(res.Orders, OrderDto{
			ID:            newOrder.ID,
			CourierID:     newOrder.CourierID,
			Weight:        newOrder.Weight,
			Region:        newOrder.Region,
			DeliveryHours: newOrder.DeliveryHours,
		})
	}

	return ctx.JSON(200, res)
}

// ============================================
// ========== GET /orders/available ===========
// ============================================

type OrderAvailabilityDto struct {
	OrderID    uint64   `json:"order_id"`
	CourierID  *uint64  `json:"courier_id"`
	Weight     float64  `json:"weight"`
	Region     int32    `json:"region"`
	TimeStart  []string `json:"time_start"`
	TimeFinish []string `json:"time_finish"`
}

func (c *OrderController) Available(ctx echo.Context) error {

	rows, err := c.uc.AvailableOrders(ctx.Request().Context())
	if err != nil {
		return err
	}

	res := []OrderAvailabilityDto{}

	for _, row := range rows {

		starts := make([]string, 0, len(row.Starts))
		for _, t := range row.Starts {
			starts = append(starts, t.String())
		}

		finishes := make([]string, 0, len(row.Finishes))
		for _, t := range row.Finishes {
			finishes = append(finishes, t.String())
		}

		res = append(res, OrderAvailabilityDto{
			OrderID:    row.OrderID,
			CourierID:  row.CourierID,
			Weight:     row.Weight,
			Region:     row.Region,
			TimeStart:  starts,
			TimeFinish: finishes,
		})
	}

	return ctx.JSON(200, res)
}

// ============================================
// ========== GET /orders/{order_id} ==========
// ============================================

func (c *OrderController) GetById(ctx echo.Context) error {

	orderIdParam := ctx.Param("order_id")

	orderId, err := strconv.Atoi(orderIdParam)
	if err != nil || orderId <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, ":order_id must be valid integer")
	}

	order, err := c.uc.GetById(ctx.Request().Context(), uint64(orderId))
	if err != nil {
		return err
	}

	return ctx.JSON(200, OrderDto{
		ID:            order.ID,
		CourierID:     order.CourierID,
		Weight:        order.Weight,
		Region:        order.Region,
		DeliveryHours: order.DeliveryHours,
	})
}

// ==============================================
// ========== PATCH /orders/{order_id} ==========
// ==============================================

type OrderUpdateRequest struct {
	Weight        *float64 `json:"weight" validate:"omitempty,min=0"`
	Region        *int32   `json:"region" validate:"omitempty,min=0"`
	DeliveryHours []string `json:"delivery_hours" validate:"omitempty,each_HH_MM_HH_MM_time_interval"`
}

func (c *OrderController) Update(ctx echo.Context) error {

	orderId, err := strconv.Atoi(ctx.Param("order_id"))
	if err != nil || orderId <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, ":order_id must be valid integer")
	}

	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req OrderUpdateRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := ctx.Validate(req); err != nil {
		return err
	}

	saved, err := c.uc.UpdateOrder(ctx.Request().Context(), uint64(orderId), payload)
	if err != nil {
		return err
	}

	return ctx.JSON(200, OrderDto{
		ID:            saved.ID,
		CourierID:     saved.CourierID,
		Weight:        saved.Weight,
		Region:        saved.Region,
		DeliveryHours: saved.DeliveryHours,
	})
}
