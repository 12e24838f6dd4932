package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/pharmacy-payments/internal/dto"
	"github.com/anyulbade/pharmacy-payments/internal/middleware"
	"github.com/anyulbade/pharmacy-payments/internal/service"
)

type MethodHandler struct {
	svc *service.MethodService
}

func NewMethodHandler(svc *service.MethodService) *MethodHandler {
	return &MethodHandler{svc: svc}
}

func (h *MethodHandler) List(c *gin.Context) {
	methods, err := h.svc.List(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": methods})
}

func (h *MethodHandler) Create(c *gin.Context) {
	var req dto.PaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.Create(c.Request.Context(), middleware.TenantID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MethodHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.Update(c.Request.Context(), middleware.TenantID(c), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MethodHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Seed copies the regional default methods into the tenant's registry. An
// empty default list is reported as a warning, not a failure of the request.
func (h *MethodHandler) Seed(c *gin.Context) {
	res, err := h.svc.SeedFromRegionalDefaults(c.Request.Context(), middleware.TenantID(c))
	if errors.Is(err, service.ErrNoRegionalDefaults) {
		c.JSON(http.StatusUnprocessableEntity, dto.SeedResponse{Warning: err.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusCreated
	if res.Created == 0 {
		status = http.StatusOK
	}
	c.JSON(status, dto.SeedResponse{Created: res.Created, Skipped: res.Skipped})
}
