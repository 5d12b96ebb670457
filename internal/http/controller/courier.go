package controller

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"yandex-team.ru/candytask/internal/usecase/courier"
)

type CourierController struct {
	uc *courier.CourierUseCase
}

type CourierDto struct {
	CourierId    uint64   `json:"courier_id"`
	CourierType  string   `json:"courier_type"`
	Regions      []int32  `json:"regions"`
	WorkingHours []string `json:"working_hours"`
}

func NewCourierController(uc *courier.CourierUseCase) CourierController {
	return CourierController{
		uc: uc,
	}
}

// ===================================
// ========== GET /couriers ==========
// ===================================

type CourierGetAllReponse struct {
	Couriers []CourierDto `json:"couriers"`
	Offset   int32        `json:"offset"`
	Limit    int32        `json:"limit"`
}

func (c *CourierController) GetAll(ctx echo.Context) error {

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

	couriers, err := c.uc.PaginatedGetAll(ctx.Request().Context(), int32(offset), int32(limit))
	if err != nil {
		return err
	}

	res := CourierGetAllReponse{
		Couriers: []CourierDto{},
	}
	for _, courier := range *couriers {
		res.Couriers = append(res.Couriers, CourierDto{
			CourierId:    courier.ID,
			CourierType:  courier.CourierType,
			Regions:      courier.Regions,
			WorkingHours: courier.WorkingHours,
		})
	}
	res.Offset = int32(offset)
	res.Limit = int32(limit)

	return ctx.JSON(200, res)
}

// ====================================
// ========== POST /couriers ==========
// ====================================

type CourierCreateResponse struct {
	Couriers []CourierDto `json:"couriers"`
}

// Create accepts a `{"data": [...]}` batch. The body goes to the usecase raw:
// the payload validator reports every offending element at once and its
// envelope must not be disturbed by an eager bind here.
func (c *CourierController) Create(ctx echo.Context) error {

	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	savedCouriers, err := c.uc.CreateCouriers(ctx.Request().Context(), payload)
	if err != nil {
		return err
	}

	res := CourierCreateResponse{
		Couriers: []CourierDto{},
	}

	for _, newCourier := range *savedCouriers {
		res.Couriers = append(res.Couriers, CourierDto{
			CourierId:    newCourier.ID,
			CourierType:  newCourier.CourierType,
			Regions:      newCourier.Regions,
			WorkingHours: newCourier.WorkingHours,
		})
	}

	return ctx.JSON(200, res)
}

// ================================================
// ========== GET /couriers/{courier_id} ==========
// ================================================

func (c *CourierController) GetById(ctx echo.Context) error {

	courierIdParam := ctx.Param("courier_id")

	courierId, err := strconv.Atoi(courierIdParam)
	if err != nil || courierId <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, ":courier_id must be valid integer")
	}

	courier, err := c.uc.GetById(ctx.Request().Context(), uint64(courierId))
	if err != nil {
		return err
	}

	return ctx.JSON(200, CourierDto{
		CourierId:    courier.ID,
		CourierType:  courier.CourierType,
		Regions:      courier.Regions,
		WorkingHours: courier.WorkingHours,
	})
}

// ==================================================
// ========== PATCH /couriers/{courier_id} ==========
// ==================================================

type CourierUpdateRequest struct {
	CourierType  *string  `json:"courier_type" validate:"omitempty,min=1"`
	Regions      []int32  `json:"regions" validate:"omitempty,dive,min=0"`
	WorkingHours []string `json:"working_hours" validate:"omitempty,each_HH_MM_HH_MM_time_interval"`
}

func (c *CourierController) Update(ctx echo.Context) error {

	courierId, err := strconv.Atoi(ctx.Param("courier_id"))
	if err != nil || courierId <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, ":courier_id must be valid integer")
	}

	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req CourierUpdateRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := ctx.Validate(req); err != nil {
		return err
	}

	saved, err := c.uc.UpdateCourier(ctx.Request().Context(), uint64(courierId), payload)
	if err != nil {
		return err
	}

	return ctx.JSON(200, CourierDto{
		CourierId:    saved.ID,
		CourierType:  saved.CourierType,
		Regions:      saved.Regions,
		WorkingHours: saved.WorkingHours,
	})
}
