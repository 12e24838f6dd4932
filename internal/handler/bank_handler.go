package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anyulbade/pharmacy-payments/internal/dto"
	"github.com/anyulbade/pharmacy-payments/internal/middleware"
	"github.com/anyulbade/pharmacy-payments/internal/service"
)

type BankHandler struct {
	svc *service.BankService
}

func NewBankHandler(svc *service.BankService) *BankHandler {
	return &BankHandler{svc: svc}
}

func (h *BankHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.svc.ListAccounts(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

func (h *BankHandler) GetAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	account, err := h.svc.GetAccount(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *BankHandler) CreateAccount(c *gin.Context) {
	var req dto.BankAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.svc.CreateAccount(c.Request.Context(), middleware.TenantID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *BankHandler) UpdateAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.BankAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.svc.UpdateAccount(c.Request.Context(), middleware.TenantID(c), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *BankHandler) SetAccountActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.svc.SetAccountActive(c.Request.Context(), middleware.TenantID(c), id, *req.IsActive)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *BankHandler) DeleteAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BankHandler) ListTransactions(c *gin.Context) {
	var accountID *uuid.UUID
	if raw := c.Query("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "invalid account_id"})
			return
		}
		accountID = &id
	}

	txns, err := h.svc.ListTransactions(c.Request.Context(), middleware.TenantID(c), accountID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txns})
}

func (h *BankHandler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	txn, err := h.svc.GetTransaction(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *BankHandler) PostTransaction(c *gin.Context) {
	var req dto.CreateBankTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.svc.PostTransaction(c.Request.Context(), middleware.TenantID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (h *BankHandler) DeleteTransaction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTransaction(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BankHandler) Reconcile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReconcileRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.svc.Reconcile(c.Request.Context(), middleware.TenantID(c), id, middleware.ActorID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *BankHandler) SetTransactionStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SetTransactionStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.svc.SetTransactionStatus(c.Request.Context(), middleware.TenantID(c), id, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *BankHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
