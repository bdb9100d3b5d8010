package handler

import (
	"errors"
	"fmt"
	"net/http"

	"pdstock/internal/apierror"
	"pdstock/internal/dto"
	"pdstock/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// Receive godoc
// @Summary Record an incoming lot
// @Tags stock
// @Accept json
// @Produce json
// @Param body body dto.ReceiveRequest true "Incoming lot"
// @Success 201 {object} dto.ReceiveResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/stock/receive [post]
func (h *StockHandler) Receive(c *gin.Context) {
	var req dto.ReceiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Receive(c.Request.Context(), req, operatorName(c))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to record receipt"))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Release godoc
// @Summary Release stock by batch number
// @Tags stock
// @Accept json
// @Produce json
// @Param body body dto.ReleaseRequest true "Release request"
// @Success 200 {object} dto.ReleaseResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/stock/release [post]
func (h *StockHandler) Release(c *gin.Context) {
	var req dto.ReleaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Release(c.Request.Context(), req, operatorName(c))
	if err != nil {
		var insufficient *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrBatchNotFound):
			c.JSON(http.StatusNotFound, apierror.New(
				fmt.Sprintf("no stock found for batch %s", req.BatchNo)))
		case errors.As(err, &insufficient):
			c.JSON(http.StatusConflict, apierror.New(insufficient.Error()))
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("failed to release stock"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) ListItems(c *gin.Context) {
	var filter dto.StockItemFilter
	if !bindQuery(c, &filter) {
		return
	}
	items, total, err := h.svc.ListItems(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list stock items"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// OnHand godoc
// @Summary Grouped on-hand stock
// @Tags stock
// @Produce json
// @Success 200 {array} dto.StockGroup
// @Router /v1/stock/on-hand [get]
func (h *StockHandler) OnHand(c *gin.Context) {
	groups, err := h.svc.GroupOnHand(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to aggregate stock"))
		return
	}
	c.JSON(http.StatusOK, groups)
}
