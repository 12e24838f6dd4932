package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/pharmacy-payments/internal/dto"
	"github.com/anyulbade/pharmacy-payments/internal/middleware"
	"github.com/anyulbade/pharmacy-payments/internal/service"
)

type RegionalHandler struct {
	svc *service.RegionalService
}

func NewRegionalHandler(svc *service.RegionalService) *RegionalHandler {
	return &RegionalHandler{svc: svc}
}

func (h *RegionalHandler) Get(c *gin.Context) {
	params, err := h.svc.Fetch(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, params)
}

func (h *RegionalHandler) Update(c *gin.Context) {
	var req dto.UpdateRegionalParamsRequest
	if !bindJSON(c, &req) {
		return
	}

	params, err := h.svc.Update(c.Request.Context(), middleware.TenantID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, params)
}
