package handler

import (
	"net/http"

	"pdstock/internal/apierror"
	"pdstock/internal/dto"
	"pdstock/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Operator login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Operators Handler ────────────────────────────────────────────────────────

type OperatorsHandler struct{ svc service.AuthService }

func NewOperatorsHandler(svc service.AuthService) *OperatorsHandler {
	return &OperatorsHandler{svc: svc}
}

func (h *OperatorsHandler) Create(c *gin.Context) {
	var req dto.CreateOperatorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateOperator(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OperatorsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListOperators(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list operators"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
