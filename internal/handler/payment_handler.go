package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/pharmacy-payments/internal/dto"
	"github.com/anyulbade/pharmacy-payments/internal/middleware"
	"github.com/anyulbade/pharmacy-payments/internal/service"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// List returns the consolidated payments, filtered by the optional search
// query and paginated in memory.
func (h *PaymentHandler) List(c *gin.Context) {
	p := dto.ParsePagination(c)

	list, err := h.svc.List(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	list = h.svc.Search(list, c.Query("search"))

	start, end := p.Window(len(list))
	c.JSON(http.StatusOK, gin.H{
		"data":       list[start:end],
		"pagination": dto.NewPagination(p.Page, p.PageSize, len(list)),
	})
}

func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *PaymentHandler) ValidateAmount(c *gin.Context) {
	var req dto.ValidateAmountRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.svc.ValidateAmount(c.Request.Context(), middleware.TenantID(c), req.Amount, req.Method)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.AmountValidationResponse{Valid: res.Valid, Message: res.Message})
}
