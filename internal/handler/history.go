package handler

import (
	"errors"
	"net/http"

	"pdstock/internal/apierror"
	"pdstock/internal/dto"
	"pdstock/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HistoryHandler struct{ svc service.HistoryService }

func NewHistoryHandler(svc service.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

func (h *HistoryHandler) Receipts(c *gin.Context) {
	var filter dto.HistoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	rows, total, err := h.svc.ListReceipts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list receipt history"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  rows,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

func (h *HistoryHandler) Releases(c *gin.Context) {
	var filter dto.HistoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	rows, total, err := h.svc.ListReleases(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list release history"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  rows,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// Slip godoc
// @Summary Download the release slip PDF for one release
// @Tags history
// @Produce application/pdf
// @Param id path string true "Release history ID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/history/releases/{id}/slip [get]
func (h *HistoryHandler) Slip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	path, err := h.svc.ReleaseSlip(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("release not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to generate slip"))
		return
	}
	c.FileAttachment(path, "release_slip.pdf")
}
