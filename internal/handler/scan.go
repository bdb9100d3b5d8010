package handler

import (
	"net/http"

	"pdstock/internal/apierror"
	"pdstock/internal/dto"
	"pdstock/internal/service"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct{ svc service.ScanService }

func NewScanHandler(svc service.ScanService) *ScanHandler {
	return &ScanHandler{svc: svc}
}

// ScanLabel godoc
// @Summary Extract label fields from a photo and resolve catalog candidates
// @Tags scan
// @Accept json
// @Produce json
// @Param body body dto.ScanLabelRequest true "Label photo (base64) and purpose"
// @Success 200 {object} dto.ScanLabelResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/scan/label [post]
func (h *ScanHandler) ScanLabel(c *gin.Context) {
	var req dto.ScanLabelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ScanLabel(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to process label"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
