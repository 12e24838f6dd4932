package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/pharmacy-payments/internal/dto"
	"github.com/anyulbade/pharmacy-payments/internal/middleware"
	"github.com/anyulbade/pharmacy-payments/internal/service"
)

type ScheduleHandler struct {
	svc *service.ScheduleService
}

func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func (h *ScheduleHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Get(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.Create(c.Request.Context(), middleware.TenantID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *ScheduleHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SetScheduleStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	detail, err := h.svc.SetStatus(c.Request.Context(), middleware.TenantID(c), id, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ScheduleHandler) RecordLinePayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "line_id")
	if !ok {
		return
	}
	var req dto.LinePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	detail, err := h.svc.RecordLinePayment(c.Request.Context(), middleware.TenantID(c), id, lineID, req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ScheduleHandler) Buckets(c *gin.Context) {
	mode, ok := service.ParseAgingMode(c.Query("aging"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "aging must be first_due or next_unpaid"})
		return
	}
	buckets, err := h.svc.Buckets(c.Request.Context(), middleware.TenantID(c), mode)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func (h *ScheduleHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
