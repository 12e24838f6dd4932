package handler

import "github.com/gin-gonic/gin"

type Handlers struct {
	Regional  *RegionalHandler
	Payments  *PaymentHandler
	Bank      *BankHandler
	Schedules *ScheduleHandler
	Methods   *MethodHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts the tenant-scoped API on api. The group must already
// carry the auth middleware.
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	api.GET("/regional-params", h.Regional.Get)
	api.PUT("/regional-params", h.Regional.Update)

	api.GET("/payments", h.Payments.List)
	api.GET("/payments/stats", h.Payments.Stats)
	api.POST("/payments/validate-amount", h.Payments.ValidateAmount)

	api.GET("/bank-accounts", h.Bank.ListAccounts)
	api.POST("/bank-accounts", h.Bank.CreateAccount)
	api.GET("/bank-accounts/:id", h.Bank.GetAccount)
	api.PUT("/bank-accounts/:id", h.Bank.UpdateAccount)
	api.DELETE("/bank-accounts/:id", h.Bank.DeleteAccount)
	api.PATCH("/bank-accounts/:id/active", h.Bank.SetAccountActive)

	api.GET("/bank-transactions", h.Bank.ListTransactions)
	api.POST("/bank-transactions", h.Bank.PostTransaction)
	api.GET("/bank-transactions/stats", h.Bank.Stats)
	api.GET("/bank-transactions/:id", h.Bank.GetTransaction)
	api.DELETE("/bank-transactions/:id", h.Bank.DeleteTransaction)
	api.POST("/bank-transactions/:id/reconcile", h.Bank.Reconcile)
	api.POST("/bank-transactions/:id/status", h.Bank.SetTransactionStatus)

	api.GET("/schedules", h.Schedules.List)
	api.POST("/schedules", h.Schedules.Create)
	api.GET("/schedules/buckets", h.Schedules.Buckets)
	api.GET("/schedules/stats", h.Schedules.Stats)
	api.GET("/schedules/:id", h.Schedules.Get)
	api.PUT("/schedules/:id/status", h.Schedules.SetStatus)
	api.POST("/schedules/:id/lines/:line_id/payments", h.Schedules.RecordLinePayment)

	api.GET("/payment-methods", h.Methods.List)
	api.POST("/payment-methods", h.Methods.Create)
	api.POST("/payment-methods/seed", h.Methods.Seed)
	api.PUT("/payment-methods/:id", h.Methods.Update)
	api.DELETE("/payment-methods/:id", h.Methods.Delete)

	api.GET("/reports/dashboard", h.Dashboard.GetDashboard)
}
