package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/middleware"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth     *AuthHandler
	Income   *IncomeHandler
	Expense  *ExpenseHandler
	Debt     *DebtHandler
	Account  *AccountHandler
	Settings *SettingsHandler
	Database *DatabaseHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the API on api. Everything except registration,
// login and the health check requires a bearer token verified by gate.
func RegisterRoutes(api *gin.RouterGroup, h *Handlers, gate *middleware.TokenGate) {
	api.GET("/health", h.Health.Health)

	// Public auth routes
	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(gate))

	protected.GET("/auth/me", h.Auth.Me)

	income := protected.Group("/income")
	income.GET("", h.Income.ListIncome)
	income.POST("", h.Income.CreateIncome)
	income.PATCH("/:id", h.Income.UpdateIncome)
	income.DELETE("/:id", h.Income.DeleteIncome)

	expenses := protected.Group("/expenses")
	expenses.GET("", h.Expense.ListExpenses)
	expenses.POST("", h.Expense.CreateExpense)
	expenses.PATCH("/:id", h.Expense.UpdateExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)

	debts := protected.Group("/debts")
	debts.GET("", h.Debt.ListDebts)
	debts.GET("/totals", h.Debt.GetDebtTotals)
	debts.POST("", h.Debt.CreateDebt)
	debts.PATCH("/:id", h.Debt.UpdateDebt)
	debts.DELETE("/:id", h.Debt.DeleteDebt)

	account := protected.Group("/account")
	account.GET("/balance", h.Account.GetBalance)
	account.GET("/monthly", h.Account.GetMonthlyTotal)
	account.GET("/transactions", h.Account.ListTransactions)
	account.POST("/transactions", h.Account.CreateTransaction)
	account.DELETE("/transactions/:id", h.Account.DeleteTransaction)

	settings := protected.Group("/settings")
	settings.GET("", h.Settings.GetSettings)
	settings.POST("", h.Settings.SaveSettings)
	settings.PUT("", h.Settings.SaveSettings)

	db := protected.Group("/database")
	db.POST("/create-tables", h.Database.CreateTables)
	db.POST("/migrate-settings", h.Database.MigrateSettings)
	db.POST("/reconcile", h.Database.Reconcile)
}
